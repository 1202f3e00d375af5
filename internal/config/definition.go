package config

import "time"

type ServerConfig struct {
	Listen              *string   `yaml:"listen"`
	TrustedProxyIps     *[]string `yaml:"trusted_proxy_ips"`
	TrustedProxyHeaders *[]string `yaml:"trusted_proxy_headers"`
}

// ProxyConfig is the immutable per-request snapshot the forwarding engine
// reads. It is constructed once at startup and never mutated afterwards.
type ProxyConfig struct {
	AllowedOrigins       []string       `yaml:"allowed_origins"`
	AllowLoopbackOrigins *bool          `yaml:"allow_loopback_origins"`
	InsecureHttpOrigins  []string       `yaml:"insecure_http_origins"`
	FollowRedirects      *bool          `yaml:"follow_redirects"`
	MaxRedirects         *int           `yaml:"max_redirects"`
	RequestTimeout       *time.Duration `yaml:"request_timeout"`
}

type DiagnosticsConfig struct {
	Enabled bool    `yaml:"enabled"`
	Listen  *string `yaml:"listen"`
}

type Config struct {
	Debug       bool               `yaml:"debug"`
	Server      *ServerConfig      `yaml:"server"`
	Proxy       *ProxyConfig       `yaml:"proxy"`
	Diagnostics *DiagnosticsConfig `yaml:"diagnostics"`
}
