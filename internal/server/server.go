package server

import (
	gocontext "context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/Z34D/fluxly-ccs/internal/config"
	"github.com/Z34D/fluxly-ccs/internal/server/common"
	"github.com/Z34D/fluxly-ccs/internal/server/context"
	"github.com/Z34D/fluxly-ccs/internal/server/handler"
	"github.com/Z34D/fluxly-ccs/internal/server/handler/gitproxy"
	"github.com/Z34D/fluxly-ccs/internal/server/handler/info"
	"github.com/Z34D/fluxly-ccs/internal/utils"
)

type ProxyServer struct {
	cfg               *config.Config
	trustedProxiesAll bool
	routes            map[string]handler.HttpHandler
	defaultHandler    handler.HttpHandler
	transports        *common.TransportCache
}

var _ http.Handler = &ProxyServer{}

func NewProxyServer(cfg *config.Config) *ProxyServer {
	transports := common.NewTransportCache(256, 5*time.Minute)

	infoHandler := info.NewInfoHandler("info")
	server := &ProxyServer{
		cfg:               cfg,
		trustedProxiesAll: slices.Contains(*cfg.Server.TrustedProxyIps, "*"),
		routes: map[string]handler.HttpHandler{
			"/":        infoHandler,
			"/healthz": infoHandler,
		},
		defaultHandler: gitproxy.NewGitProxyHandler("git", cfg.Proxy, transports),
		transports:     transports,
	}
	return server
}

func (s *ProxyServer) createRequestContext(r *http.Request) *context.RequestContext {
	host := r.Host
	if hostPart, _, err := net.SplitHostPort(r.Host); err == nil {
		host = hostPart
	}

	clientIp, clientAddr := utils.GetIpFromHostPort(r.RemoteAddr)
	trusted := s.trustedProxiesAll || (clientIp != nil && slices.Contains(*s.cfg.Server.TrustedProxyIps, clientIp.String()))
	if trusted {
		if realClientIp, ok := utils.GetRequestClientIpFromProxyHeader(r, *s.cfg.Server.TrustedProxyHeaders); ok {
			clientAddr = realClientIp
		}
	}
	return context.NewRequestContext(host, clientAddr)
}

func sll(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func (s *ProxyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// context init
	ctx := s.createRequestContext(r)
	targetHandler, ok := s.routes[r.URL.Path]
	if !ok {
		targetHandler = s.defaultHandler
	}
	ctx.LogPrefix = fmt.Sprintf("(%s:%s) ", targetHandler.Name(), ctx.RequestId)

	logLine := ctx.LogPrefix + fmt.Sprintf("%s - %s %s", ctx.ClientAddr, r.Method, r.URL)
	log.
		WithField("Host", ctx.Host).
		WithField("UA", sll(r.UserAgent(), 24)).
		Debug(logLine)

	// set total timeout for this request
	timeoutCtx, cancel := gocontext.WithTimeout(r.Context(), *s.cfg.Proxy.RequestTimeout)
	defer cancel()
	r = r.WithContext(timeoutCtx)

	m := httpsnoop.CaptureMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetHandler.ServeHttp(ctx, w, r)
	}), w, r)

	log.
		WithField("Cost", fmt.Sprintf("%.3fs", m.Duration.Seconds())).
		WithField("Status", fmt.Sprintf("%d %s", m.Code, http.StatusText(m.Code))).
		WithField("Size", utils.PrettyByteSize(m.Written)).
		Info(logLine)
	metricRequestServed.WithLabelValues(strconv.Itoa(m.Code)).Inc()
}

func (s *ProxyServer) Shutdown() {
	s.transports.Shutdown()
}
