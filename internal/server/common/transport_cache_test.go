package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportCacheReusesPerHost(t *testing.T) {
	cache := NewTransportCache(4, time.Minute)
	defer cache.Shutdown()

	a1 := cache.Get("github.com")
	a2 := cache.Get("github.com")
	b := cache.Get("gitlab.com")

	require.NotNil(t, a1)
	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
}

func TestTransportCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewTransportCache(2, time.Minute)
	defer cache.Shutdown()

	first := cache.Get("a.example")
	cache.Get("b.example")
	cache.Get("c.example") // evicts a.example

	assert.NotSame(t, first, cache.Get("a.example"))
}
