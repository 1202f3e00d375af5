package gitproxy

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/Z34D/fluxly-ccs/internal/constants"
)

// request headers forwarded to the upstream Git host
var upstreamAllowedHeaders = []string{
	"accept",
	"accept-encoding",
	"accept-language",
	"authorization",
	"cache-control",
	"connection",
	"content-length",
	"content-type",
	"dnt",
	"git-protocol",
	"pragma",
	"range",
	"referer",
	"user-agent",
	"x-authorization",
	"x-http-method-override",
	"x-requested-with",
}

// response headers exposed to the browser
var exposedHeaders = []string{
	"accept-ranges",
	"age",
	"cache-control",
	"content-length",
	"content-language",
	"content-type",
	"date",
	"etag",
	"expires",
	"last-modified",
	"location",
	"pragma",
	"server",
	"transfer-encoding",
	"vary",
	"x-github-request-id",
	"x-gitlab-request-id",
	"x-redirected-url",
}

var (
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsAllowHeaders  = strings.Join(upstreamAllowedHeaders, ", ")
	corsExposeHeaders = strings.Join(exposedHeaders, ", ")
)

var absoluteLocationRe = regexp.MustCompile(`^https?://`)

// BuildUpstreamHeaders filters the inbound headers through the allow-list
// and pins the User-Agent to a git dialect the upstream host recognizes.
func BuildUpstreamHeaders(in http.Header) http.Header {
	out := http.Header{}
	for _, name := range upstreamAllowedHeaders {
		for _, value := range in.Values(name) {
			out.Add(name, value)
		}
	}

	// Upstream hosts sniff the User-Agent to pick their smart HTTP response
	// dialect, so anything that is not already a git agent gets replaced.
	if !strings.HasPrefix(out.Get("User-Agent"), "git/") {
		out.Set("User-Agent", constants.UpstreamUserAgent)
	}

	// Authorization is in the allow-list already; re-copying it here keeps
	// credentialed requests working even if the filter above ever regresses.
	if auth := in.Get("Authorization"); auth != "" {
		out.Set("Authorization", auth)
	}

	return out
}

// ApplyCorsHeaders stamps the full CORS grant for the validated origin
// ("*" when the request carried no Origin header).
func ApplyCorsHeaders(h http.Header, corsOrigin string) {
	h.Set("Access-Control-Allow-Origin", corsOrigin)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
	h.Set("Access-Control-Allow-Credentials", "false")
}

// CopyDownstreamHeaders copies the exposed upstream response headers into
// the downstream response. Content-Length is never copied: the transport
// recomputes it from the bytes actually forwarded.
func CopyDownstreamHeaders(upstream http.Header, out http.Header) {
	for _, name := range exposedHeaders {
		if name == "content-length" {
			continue
		}
		for _, value := range upstream.Values(name) {
			out.Add(name, value)
		}
	}
}

// RewriteLocation strips the scheme prefix off an absolute Location header
// so the browser resolves the redirect against the proxy instead of hitting
// the bare upstream host and re-triggering CORS.
func RewriteLocation(h http.Header) {
	if location := h.Get("Location"); location != "" {
		h.Set("Location", absoluteLocationRe.ReplaceAllString(location, ""))
	}
}
