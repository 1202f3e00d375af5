package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/exp/slices"
)

func (cfg *Config) validateValues() error {
	// Server
	if !slices.Contains(*cfg.Server.TrustedProxyIps, "*") {
		for _, ipStr := range *cfg.Server.TrustedProxyIps {
			if net.ParseIP(ipStr) == nil {
				return fmt.Errorf("bad TrustedProxyIps value %+q: not an IP address", ipStr)
			}
		}
	}

	// Proxy
	for originIdx, origin := range cfg.Proxy.AllowedOrigins {
		urlObj, err := url.Parse(origin)
		if err != nil || urlObj == nil {
			return fmt.Errorf("[origin%d] failed to parse AllowedOrigins value %+q: %v", originIdx, origin, err)
		}
		if urlObj.Scheme == "" || urlObj.Host == "" {
			return fmt.Errorf("[origin%d] bad AllowedOrigins value %+q: scheme and host are required", originIdx, origin)
		}
		if len(urlObj.Path) > 0 {
			return fmt.Errorf("[origin%d] bad AllowedOrigins value %+q: path is not allowed", originIdx, origin)
		}
	}
	for domainIdx, domain := range cfg.Proxy.InsecureHttpOrigins {
		if domain == "" {
			return fmt.Errorf("[domain%d] InsecureHttpOrigins value is empty", domainIdx)
		}
		if strings.Contains(domain, "://") || strings.Contains(domain, "/") {
			return fmt.Errorf("[domain%d] bad InsecureHttpOrigins value %+q: expect a bare domain like github.com", domainIdx, domain)
		}
	}
	if *cfg.Proxy.MaxRedirects < 0 {
		return fmt.Errorf("MaxRedirects cannot < 0, value: %v", *cfg.Proxy.MaxRedirects)
	}
	if *cfg.Proxy.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout cannot <= 0, value: %v", *cfg.Proxy.RequestTimeout)
	}

	return nil
}
