package gitproxy

import (
	gocontext "context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Z34D/fluxly-ccs/internal/config"
	"github.com/Z34D/fluxly-ccs/internal/constants"
	"github.com/Z34D/fluxly-ccs/internal/server/common"
	"github.com/Z34D/fluxly-ccs/internal/server/context"
	"github.com/Z34D/fluxly-ccs/internal/server/handler"
	"github.com/Z34D/fluxly-ccs/internal/utils"
)

// proxyHandler is the forwarding engine: it validates the origin, classifies
// the request, resolves the upstream target, forwards the exchange, and
// transforms the response for cross-origin consumption. Per-request state
// only; the config snapshot is immutable.
type proxyHandler struct {
	name            string
	cfg             *config.ProxyConfig
	allowedOrigins  map[string]bool
	insecureOrigins map[string]bool
	transports      *common.TransportCache
	errorLogLimiter *rate.Limiter
}

var _ handler.HttpHandler = &proxyHandler{}

func NewGitProxyHandler(name string, cfg *config.ProxyConfig, transports *common.TransportCache) handler.HttpHandler {
	allowedOrigins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	insecureOrigins := make(map[string]bool, len(cfg.InsecureHttpOrigins))
	for _, domain := range cfg.InsecureHttpOrigins {
		insecureOrigins[domain] = true
	}
	return &proxyHandler{
		name:            name,
		cfg:             cfg,
		allowedOrigins:  allowedOrigins,
		insecureOrigins: insecureOrigins,
		transports:      transports,
		// a hung or dead upstream must not flood the error log
		errorLogLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

func (h *proxyHandler) Name() string {
	return h.name
}

func (h *proxyHandler) ServeHttp(ctx *context.RequestContext, w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !IsOriginAllowed(origin, h.allowedOrigins, *h.cfg.AllowLoopbackOrigins) {
		log.Debugf("%sRejected origin %+q", ctx.LogPrefix, origin)
		common.NewHttpError(http.StatusForbidden, "Forbidden - Origin not allowed").WriteTo(w)
		return
	}
	corsOrigin := origin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	op := Classify(r)
	if op == OpNotGit {
		if !LooksLikeGit(r) {
			h.handleNonGit(w, r)
			return
		}
		// The strict classifier and the relaxed detector disagree. Forward
		// anyway, but keep a trace for product clarification.
		log.Debugf("%sRelaxed git detection only: %s %s", ctx.LogPrefix, r.Method, r.URL)
	}
	metricGitOperations.WithLabelValues(op.String()).Inc()

	if r.Method == http.MethodOptions {
		// preflight ends here, upstream is never contacted
		ApplyCorsHeaders(w.Header(), corsOrigin)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	target, err := ResolveTarget(r.URL.Path, r.URL.RawQuery, h.insecureOrigins)
	if err != nil {
		common.NewHttpError(http.StatusBadRequest, err.Error()).WriteTo(w)
		return
	}

	var body io.Reader
	if r.Method == http.MethodPost {
		body = r.Body
	}
	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, target.Url, body)
	if err != nil {
		common.NewHttpError(http.StatusBadRequest, fmt.Sprintf("invalid proxy path %q, expected format /domain.com/path/to/repo", r.URL.Path)).WriteTo(w)
		return
	}
	if r.Method == http.MethodPost {
		upstreamReq.ContentLength = r.ContentLength
	}
	upstreamReq.Header = BuildUpstreamHeaders(r.Header)

	transport := h.transports.Get(target.Domain)
	result, err := common.DoUpstream(ctx, transport, upstreamReq, *h.cfg.FollowRedirects, *h.cfg.MaxRedirects)
	if err != nil {
		metricUpstreamFailures.Inc()
		if h.errorLogLimiter.Allow() {
			log.Errorf("%sUpstream fetch to %s failed: %v", ctx.LogPrefix, target.Domain, err)
		}
		// the client gets no upstream error details or target URLs
		if errors.Is(err, gocontext.DeadlineExceeded) {
			common.NewHttpError(http.StatusGatewayTimeout, "Upstream timeout").WriteTo(w)
		} else {
			common.NewHttpError(http.StatusInternalServerError, "Internal proxy error").WriteTo(w)
		}
		return
	}
	resp := result.Response
	defer func() {
		_ = resp.Body.Close()
	}()

	ApplyCorsHeaders(w.Header(), corsOrigin)
	CopyDownstreamHeaders(resp.Header, w.Header())
	RewriteLocation(w.Header())
	if result.Redirects > 0 {
		w.Header().Set("X-Redirected-Url", result.FinalUrl)
	}
	w.WriteHeader(resp.StatusCode)

	written, err := io.Copy(w, resp.Body)
	if err != nil {
		log.Debugf("%sStreaming from %s stopped after %s: %v", ctx.LogPrefix, target.Domain, utils.PrettyByteSize(written), err)
	} else {
		log.Debugf("%sStreamed %s from %s", ctx.LogPrefix, utils.PrettyByteSize(written), target.Domain)
	}
}

func (h *proxyHandler) handleNonGit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodOptions:
		// unknown preflights get no CORS grant either
		common.NewHttpError(http.StatusForbidden, "Forbidden - Not a Git request").WriteTo(w)
	default:
		common.WriteJson(w, r, http.StatusOK, map[string]any{
			"message": "This is a Git smart HTTP CORS proxy, request a path like /domain.com/owner/repo.git/info/refs",
			"url":     r.URL.String(),
			"method":  r.Method,
			"isGit":   false,
			"version": constants.Version,
		})
	}
}
