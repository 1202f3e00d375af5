package config

import (
	"strings"

	"github.com/Z34D/fluxly-ccs/internal/utils"
)

// Cli holds the command line arguments parsed by kong. Hosting platforms
// hand over lists as comma-separated envvars, so the list-ish values
// arrive as plain strings and get split here.
type Cli struct {
	Config              string `kong:"short='c',help='Path to the config yaml file.',env='CONFIG_PATH'"`
	Listen              string `kong:"short='l',help='Listen address (overrides config).',env='LISTEN'"`
	AllowedOrigins      string `kong:"help='Comma-separated origin allow-list (overrides config).',env='ALLOWED_ORIGINS'"`
	AllowLoopback       *bool  `kong:"help='Allow localhost/127.0.0.1 origins regardless of the allow-list.',env='ALLOW_LOOPBACK'"`
	InsecureHttpOrigins string `kong:"help='Comma-separated domains proxied over plain http.',env='INSECURE_HTTP_ORIGINS'"`
	Debug               bool   `kong:"short='d',help='Enable verbose logging.',env='DEBUG'"`
	Version             bool   `kong:"short='v',help='Show version and exit.'"`
}

func splitCommaList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (cli *Cli) applyTo(cfg *Config) {
	if cli.Debug {
		cfg.Debug = true
	}
	if cli.Listen != "" {
		if cfg.Server == nil {
			cfg.Server = &ServerConfig{}
		}
		cfg.Server.Listen = utils.ToPtr(cli.Listen)
	}
	if cli.AllowedOrigins != "" || cli.AllowLoopback != nil || cli.InsecureHttpOrigins != "" {
		if cfg.Proxy == nil {
			cfg.Proxy = &ProxyConfig{}
		}
	}
	if cli.AllowedOrigins != "" {
		cfg.Proxy.AllowedOrigins = splitCommaList(cli.AllowedOrigins)
	}
	if cli.AllowLoopback != nil {
		cfg.Proxy.AllowLoopbackOrigins = cli.AllowLoopback
	}
	if cli.InsecureHttpOrigins != "" {
		cfg.Proxy.InsecureHttpOrigins = splitCommaList(cli.InsecureHttpOrigins)
	}
}
