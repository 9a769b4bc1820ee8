package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etherscope-bot/pkg/models"
)

func analysisFor(address string) *models.WalletAnalysis {
	return &models.WalletAnalysis{WalletAddress: address}
}

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration, maxSize int) (*Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := New(true, ttl, maxSize)
	c.now = clk.now
	return c, clk
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(5*time.Minute, 10)
	a := analysisFor("0xabc")
	c.Set("analysis:0xabc", a)

	got := c.Get("analysis:0xabc")
	require.NotNil(t, got)
	assert.Same(t, a, got)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(5*time.Minute, 10)
	assert.Nil(t, c.Get("analysis:0xmissing"))
}

func TestCacheExpiryRemovesEntry(t *testing.T) {
	c, clk := newTestCache(5*time.Minute, 10)
	c.Set("k", analysisFor("0xabc"))

	clk.advance(5*time.Minute + time.Second)
	assert.Nil(t, c.Get("k"))
	assert.Equal(t, 0, c.GetStats().Size, "expired entry must be removed, not just hidden")
}

func TestCacheEntryValidJustBeforeTTL(t *testing.T) {
	c, clk := newTestCache(5*time.Minute, 10)
	c.Set("k", analysisFor("0xabc"))

	clk.advance(5*time.Minute - time.Second)
	assert.NotNil(t, c.Get("k"))
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	c, clk := newTestCache(time.Hour, 3)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), analysisFor("0xabc"))
		clk.advance(time.Second)
	}

	c.Set("k3", analysisFor("0xdef"))

	assert.Nil(t, c.Get("k0"), "oldest-created entry must be evicted")
	assert.NotNil(t, c.Get("k1"))
	assert.NotNil(t, c.Get("k2"))
	assert.NotNil(t, c.Get("k3"))
	assert.Equal(t, 3, c.GetStats().Size)
}

func TestCacheDisabledIsNoop(t *testing.T) {
	c := New(false, time.Minute, 10)
	c.Set("k", analysisFor("0xabc"))
	assert.Nil(t, c.Get("k"))
	stats := c.GetStats()
	assert.False(t, stats.Enabled)
	assert.Equal(t, 0, stats.Size)
}

func TestCacheSetTTLOverride(t *testing.T) {
	c, clk := newTestCache(time.Hour, 10)
	c.SetTTL("short", analysisFor("0xabc"), time.Minute)
	c.Set("long", analysisFor("0xdef"))

	clk.advance(2 * time.Minute)
	assert.Nil(t, c.Get("short"))
	assert.NotNil(t, c.Get("long"))
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Hour, 10)
	c.Set("a", analysisFor("0x1"))
	c.Set("b", analysisFor("0x2"))

	c.Delete("a")
	assert.Nil(t, c.Get("a"))
	assert.NotNil(t, c.Get("b"))

	c.Clear()
	assert.Nil(t, c.Get("b"))
	assert.Equal(t, 0, c.GetStats().Size)
}

func TestCleanupExpiredCount(t *testing.T) {
	c, clk := newTestCache(time.Minute, 10)
	c.Set("a", analysisFor("0x1"))
	c.Set("b", analysisFor("0x2"))
	clk.advance(30 * time.Second)
	c.Set("c", analysisFor("0x3"))

	clk.advance(45 * time.Second)
	assert.Equal(t, 2, c.CleanupExpired())
	assert.Equal(t, 0, c.CleanupExpired())
	assert.NotNil(t, c.Get("c"))
}

func TestGetStatsUtilization(t *testing.T) {
	c, _ := newTestCache(time.Hour, 4)
	c.Set("a", analysisFor("0x1"))

	stats := c.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 4, stats.MaxSize)
	assert.Equal(t, time.Hour, stats.TTL)
	assert.InDelta(t, 0.25, stats.Utilization, 1e-9)
}
