package info

import (
	"net/http"

	"github.com/Z34D/fluxly-ccs/internal/constants"
	"github.com/Z34D/fluxly-ccs/internal/server/common"
	"github.com/Z34D/fluxly-ccs/internal/server/context"
	"github.com/Z34D/fluxly-ccs/internal/server/handler"
)

// infoHandler owns the small non-proxied surface: the root banner and the
// health endpoint.
type infoHandler struct {
	name string
}

var _ handler.HttpHandler = &infoHandler{}

func NewInfoHandler(name string) handler.HttpHandler {
	return &infoHandler{name: name}
}

func (h *infoHandler) Name() string {
	return h.name
}

func (h *infoHandler) ServeHttp(_ *context.RequestContext, w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		common.WriteJson(w, r, http.StatusOK, map[string]any{
			"message": constants.Name + " - CORS proxy for the Git smart HTTP protocol",
			"version": constants.Version,
			"usage":   "/domain.com/owner/repo.git",
		})
	case "/healthz":
		common.WriteJson(w, r, http.StatusOK, map[string]any{
			"status":  "ok",
			"version": constants.Version,
		})
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
