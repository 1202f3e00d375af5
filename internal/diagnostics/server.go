package diagnostics

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Z34D/fluxly-ccs/internal/config"
	"github.com/Z34D/fluxly-ccs/internal/constants"
)

type Server struct {
	cfg *config.DiagnosticsConfig
}

func NewServer(cfg *config.DiagnosticsConfig) *Server {
	return &Server{
		cfg: cfg,
	}
}

func (s *Server) CreateHttpServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.createRootHandler())
	mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	mux.HandleFunc("/debug/pprof/", s.createDebugPprofHandler())

	return &http.Server{
		Addr:    *s.cfg.Listen,
		Handler: mux,
	}
}

func (s *Server) createRootHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.Error(w, "", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(fmt.Sprintf("%s v%s", constants.Name, constants.Version)))
	}
}

func (s *Server) createDebugPprofHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if pprofName, found := strings.CutPrefix(r.URL.Path, "/debug/pprof/"); found {
			// ref: net/http/pprof/pprof.go, init()
			switch pprofName {
			case "":
				pprof.Index(w, r)
			case "cmdline":
				pprof.Cmdline(w, r)
			case "profile":
				pprof.Profile(w, r)
			case "symbol":
				pprof.Symbol(w, r)
			case "trace":
				pprof.Trace(w, r)
			default:
				pprof.Handler(pprofName).ServeHTTP(w, r)
			}
		} else {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		}
	}
}
