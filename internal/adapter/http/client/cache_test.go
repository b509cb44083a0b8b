package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/abrazar/internal/infrastructure/metrics"
)

func TestResponseCache_InvalidateByResourceRoot(t *testing.T) {
	t.Parallel()

	c := NewResponseCache(0, 0, nil)
	for _, key := range []string{"/cases", "/cases?page=2", "/cases/42/history", "/casesarchive", "/homeless"} {
		c.Add(key, &Response{Status: http.StatusOK})
	}

	c.Invalidate("/cases")

	_, ok := c.Get("/casesarchive")
	assert.True(t, ok, "sibling prefix must survive")
	_, ok = c.Get("/homeless")
	assert.True(t, ok)
	_, ok = c.Get("/cases?page=2")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestResponseCache_ReturnsCopies(t *testing.T) {
	t.Parallel()

	c := NewResponseCache(4, time.Minute, nil)
	original := &Response{Status: http.StatusOK, Header: http.Header{"X": {"1"}}, Body: []byte("abc")}
	c.Add("/k", original)
	original.Body[0] = 'z'

	got, ok := c.Get("/k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got.Body))

	got.Body[0] = 'y'
	again, _ := c.Get("/k")
	assert.Equal(t, "abc", string(again.Body))
}

func TestResponseCache_Expires(t *testing.T) {
	t.Parallel()

	c := NewResponseCache(4, 10*time.Millisecond, nil)
	c.Add("/k", &Response{Status: http.StatusOK})
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("/k")
	assert.False(t, ok)
}

func TestResponseCache_NilIsNoop(t *testing.T) {
	t.Parallel()

	var c *ResponseCache
	c.Add("/k", &Response{})
	c.Invalidate("/k")
	c.Purge()
	_, ok := c.Get("/k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestResponseCache_RecordsLookups(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	c := NewResponseCache(4, time.Minute, m)
	c.Add("/k", &Response{Status: http.StatusOK})
	c.Get("/k")
	c.Get("/missing")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}
