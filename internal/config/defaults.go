package config

import (
	"time"

	"github.com/Z34D/fluxly-ccs/internal/utils"
)

// setDefaultValues fills all nil values with the defaults
func (cfg *Config) setDefaultValues() {
	// Server
	if cfg.Server == nil {
		cfg.Server = &ServerConfig{}
	}
	if cfg.Server.Listen == nil {
		cfg.Server.Listen = utils.ToPtr(":8080")
	}
	if cfg.Server.TrustedProxyIps == nil {
		cfg.Server.TrustedProxyIps = utils.ToPtr([]string{"127.0.0.1"})
	}
	if cfg.Server.TrustedProxyHeaders == nil {
		cfg.Server.TrustedProxyHeaders = utils.ToPtr([]string{
			"CF-Connecting-IP", // Cloudflare
			"X-Forwarded-For",  // Standard proxy header
			"X-Real-IP",        // Common alternative
		})
	}

	// Proxy
	if cfg.Proxy == nil {
		cfg.Proxy = &ProxyConfig{}
	}
	if cfg.Proxy.AllowLoopbackOrigins == nil {
		cfg.Proxy.AllowLoopbackOrigins = utils.ToPtr(true)
	}
	if cfg.Proxy.FollowRedirects == nil {
		cfg.Proxy.FollowRedirects = utils.ToPtr(false)
	}
	if cfg.Proxy.MaxRedirects == nil {
		cfg.Proxy.MaxRedirects = utils.ToPtr(10)
	}
	if cfg.Proxy.RequestTimeout == nil {
		cfg.Proxy.RequestTimeout = utils.ToPtr(1 * time.Hour)
	}

	// Diagnostics
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = &DiagnosticsConfig{}
	}
	if cfg.Diagnostics.Listen == nil {
		cfg.Diagnostics.Listen = utils.ToPtr("127.0.0.1:8081")
	}
}
