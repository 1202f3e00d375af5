package common

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Z34D/fluxly-ccs/internal/server/context"
	"github.com/Z34D/fluxly-ccs/internal/utils"
)

// Request bodies are replayable for redirect hops only up to this size.
const bodyReplayBufferSize = 1 << 20

type UpstreamResult struct {
	Response  *http.Response
	FinalUrl  string
	Redirects int
}

func IsStatusCodeRedirect(code int) bool {
	return code == http.StatusMovedPermanently ||
		code == http.StatusFound ||
		code == http.StatusSeeOther ||
		code == http.StatusTemporaryRedirect ||
		code == http.StatusPermanentRedirect
}

// DoUpstream performs the upstream exchange. Redirects are never followed by
// the transport itself; with follow == false the first response comes back
// untouched so the caller can rewrite its Location header. With follow ==
// true, up to maxRedirects hops are chased here, replaying the buffered
// request body and dropping auth headers when the hop changes hosts.
func DoUpstream(ctx *context.RequestContext, transport http.RoundTripper, req *http.Request, follow bool, maxRedirects int) (*UpstreamResult, error) {
	if transport == nil {
		transport = http.DefaultTransport
	}

	req = req.Clone(req.Context())

	var bufferedBody *utils.BufferedReadCloser
	if req.Body != nil && req.Body != http.NoBody {
		bufferedBody = utils.NewBufferedReadCloser(req.Body, bodyReplayBufferSize)
		req.Body = bufferedBody
	}

	result := &UpstreamResult{FinalUrl: req.URL.String()}
	for {
		resp, err := transport.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if !follow || !IsStatusCodeRedirect(resp.StatusCode) || result.Redirects >= maxRedirects {
			result.Response = resp
			return result, nil
		}

		location, err := resp.Location()
		if err != nil {
			log.Debugf("%sRedirect response (%s) without a usable Location header, not following", ctx.LogPrefix, resp.Status)
			result.Response = resp
			return result, nil
		}

		_ = resp.Body.Close()

		log.Debugf("%sFollowing redirect (%s) from %+q to %+q", ctx.LogPrefix, resp.Status, req.URL, location)
		oldReq := req
		req, err = http.NewRequestWithContext(oldReq.Context(), oldReq.Method, location.String(), nil)
		if err != nil {
			return nil, err
		}

		rebuildReqHeader(req, oldReq)

		result.Redirects++
		result.FinalUrl = location.String()
		if bufferedBody != nil {
			nextBody, ok := bufferedBody.GetNextReadCloser()
			if !ok {
				return nil, errors.New("request body too large to replay for redirect")
			}
			req.Body = nextBody
			req.ContentLength = oldReq.ContentLength
		}
	}
}

func rebuildReqHeader(req *http.Request, oldReq *http.Request) {
	// remove sensitive auth headers if host mismatch
	stripSensitiveHeaders := req.URL.Hostname() != oldReq.URL.Hostname()

	for k, v := range oldReq.Header {
		sensitive := false
		switch k {
		case "Authorization", "Www-Authenticate", "Cookie", "Cookie2":
			sensitive = true
		}
		if !(sensitive && stripSensitiveHeaders) {
			req.Header[k] = v
		}
	}
}
