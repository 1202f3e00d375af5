package gitproxy

import (
	"fmt"
	"strings"
)

// Target is the resolved upstream destination for a proxy path of the form
// /{domain}/{repo-path...}.
type Target struct {
	Domain string // first path segment, the upstream host
	Rest   string // repo path after the domain, without the query
	Url    string // absolute upstream URL including the verbatim query
}

// ResolveTarget builds the upstream URL from the inbound path and raw query.
// The scheme is https unless the domain is listed as an insecure http
// origin. The query string is appended exactly as received, re-encoding it
// could change what the upstream Git server sees.
func ResolveTarget(path, rawQuery string, insecureOrigins map[string]bool) (*Target, error) {
	trimmed := strings.TrimPrefix(path, "/")
	domain, rest, found := strings.Cut(trimmed, "/")
	if !found || domain == "" || rest == "" {
		return nil, fmt.Errorf("invalid proxy path %q, expected format /domain.com/path/to/repo", path)
	}

	protocol := "https"
	if insecureOrigins[domain] {
		protocol = "http"
	}

	targetUrl := protocol + "://" + domain + "/" + rest
	if rawQuery != "" {
		targetUrl += "?" + rawQuery
	}

	return &Target{
		Domain: domain,
		Rest:   rest,
		Url:    targetUrl,
	}, nil
}
