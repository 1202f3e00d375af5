package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Z34D/fluxly-ccs/internal/config"
	"github.com/Z34D/fluxly-ccs/internal/constants"
)

func newTestServer(t *testing.T) *ProxyServer {
	cfg := config.Config{}
	require.NoError(t, cfg.Init())
	srv := NewProxyServer(&cfg)
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestServeHTTPRootBanner(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, constants.Version, payload["version"])
	assert.Contains(t, payload["message"], constants.Name)
}

func TestServeHTTPHealthz(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
}

// anything that is not a reserved route falls through to the git proxy
func TestServeHTTPDefaultRouteIsGitProxy(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/github.com/x/y.git/git-receive-pack", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not a Git request")
}

func TestCreateRequestContext(t *testing.T) {
	srv := newTestServer(t)

	t.Run("TrustedProxyHeaderHonored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "127.0.0.1:55555"
		r.Header.Set("X-Forwarded-For", "203.0.113.9")
		ctx := srv.createRequestContext(r)
		assert.Equal(t, "203.0.113.9", ctx.ClientAddr)
	})

	t.Run("UntrustedPeerHeaderIgnored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "198.51.100.7:44444"
		r.Header.Set("X-Forwarded-For", "203.0.113.9")
		ctx := srv.createRequestContext(r)
		assert.Equal(t, "198.51.100.7", ctx.ClientAddr)
	})

	t.Run("HostPortStripped", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = "proxy.example.com:8080"
		ctx := srv.createRequestContext(r)
		assert.Equal(t, "proxy.example.com", ctx.Host)
	})
}
