package gitproxy

import "net/url"

// IsOriginAllowed decides whether the given Origin header value may receive
// CORS headers. An absent origin is always allowed: same-origin browsers and
// non-browser clients like the git CLI never send one, and they must not be
// blocked for it.
func IsOriginAllowed(origin string, allowedOrigins map[string]bool, allowLoopback bool) bool {
	if origin == "" {
		return true
	}

	urlObj, err := url.Parse(origin)
	if err != nil || urlObj.Hostname() == "" {
		// malformed Origin header counts as "not allowed", never as an error
		return false
	}

	if allowLoopback {
		switch urlObj.Hostname() {
		case "localhost", "127.0.0.1":
			return true
		}
	}

	// exact match on scheme+host+port
	return allowedOrigins[origin]
}
