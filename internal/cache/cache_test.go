package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := New(true)

	etag := c.Set("games:DARTS:2026-08-29", []byte(`[{"id":"1"}]`), time.Minute)
	require.NotEmpty(t, etag)

	data, gotETag, ok := c.Get("games:DARTS:2026-08-29")
	require.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"1"}]`), data)
	assert.Equal(t, etag, gotETag)
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)

	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDisabledCacheNeverHits(t *testing.T) {
	c := New(false)

	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag, "disabled cache still computes etags for conditional requests")

	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestEvictRemovesOnlyExpired(t *testing.T) {
	c := New(true)
	c.Set("live", []byte("a"), time.Minute)
	c.Set("dead", []byte("b"), -time.Second)

	c.evict()

	_, _, ok := c.Get("live")
	assert.True(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_keys"])
}

func TestComputeETagIsStablePerPayload(t *testing.T) {
	a := ComputeETag([]byte("payload"))
	b := ComputeETag([]byte("payload"))
	other := ComputeETag([]byte("different"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, `W/"`)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))

	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"nope"`, etag))
}
