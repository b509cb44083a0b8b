package client

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/iho/abrazar/internal/infrastructure/metrics"
)

// Cache defaults.
const (
	DefaultCacheSize = 256
	DefaultStaleTime = 5 * time.Minute
)

// ResponseCache keeps successful GET responses for a short stale time.
// It is keyed by path plus encoded query and is safe for concurrent use.
type ResponseCache struct {
	lru     *expirable.LRU[string, *Response]
	metrics *metrics.Metrics
}

// NewResponseCache creates a cache holding up to size responses for ttl.
func NewResponseCache(size int, ttl time.Duration, m *metrics.Metrics) *ResponseCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultStaleTime
	}
	return &ResponseCache{
		lru:     expirable.NewLRU[string, *Response](size, nil, ttl),
		metrics: m,
	}
}

// Get returns a copy of the cached response for key.
func (c *ResponseCache) Get(key string) (*Response, bool) {
	if c == nil {
		return nil, false
	}
	resp, ok := c.lru.Get(key)
	c.metrics.CacheLookup(ok)
	if !ok {
		return nil, false
	}
	return resp.clone(), true
}

// Add stores a copy of resp under key.
func (c *ResponseCache) Add(key string, resp *Response) {
	if c == nil {
		return
	}
	c.lru.Add(key, resp.clone())
}

// Invalidate drops every entry under the resource path root, e.g. "/cases"
// drops "/cases", "/cases?page=2" and "/cases/42/history".
func (c *ResponseCache) Invalidate(root string) {
	if c == nil {
		return
	}
	for _, key := range c.lru.Keys() {
		if key == root || strings.HasPrefix(key, root+"/") || strings.HasPrefix(key, root+"?") {
			c.lru.Remove(key)
		}
	}
}

// Purge drops everything.
func (c *ResponseCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
