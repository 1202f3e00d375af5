package common

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
)

// TransportCache hands out one http.Transport per upstream host so that
// keep-alive connections get reused across requests to the same Git host.
// Connection reuse is an optimization only; the proxy stays stateless at the
// request level. Idle entries age out via the LRU TTL; an evicted transport
// simply stops being handed out, in-flight requests keep their reference.
type TransportCache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *http.Transport]
}

func NewTransportCache(maxSize int, idleTTL time.Duration) *TransportCache {
	onEvict := func(host string, transport *http.Transport) {
		log.Debugf("Evicting idle transport for upstream host %s", host)
		transport.CloseIdleConnections()
	}
	return &TransportCache{
		lru: expirable.NewLRU[string, *http.Transport](maxSize, onEvict, idleTTL),
	}
}

func (c *TransportCache) Get(host string) *http.Transport {
	c.mu.Lock()
	defer c.mu.Unlock()

	if transport, ok := c.lru.Get(host); ok {
		return transport
	}
	transport := newUpstreamTransport()
	c.lru.Add(host, transport)
	log.Debugf("Created new transport for upstream host %s", host)
	return transport
}

func (c *TransportCache) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func newUpstreamTransport() *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   32,
	}
}
