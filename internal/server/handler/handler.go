package handler

import (
	"net/http"

	"github.com/Z34D/fluxly-ccs/internal/server/context"
)

type HttpHandler interface {
	Name() string
	ServeHttp(ctx *context.RequestContext, w http.ResponseWriter, r *http.Request)
}
