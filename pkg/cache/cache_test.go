package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens-ai/revlens/pkg/models"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	return New(ttl, WithClock(clk.Now)), clk
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestTTLExpiry(t *testing.T) {
	c, clk := newTestCache(5 * time.Minute)
	c.Set("k", 1)

	clk.Advance(5*time.Minute - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should be valid just before TTL")

	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire at TTL")

	// Expired read evicts: a later read within a hypothetical new window is
	// still a miss because the entry is gone.
	clk.Advance(-4 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "evicted entry must stay gone")
}

func TestSetReplacesTimestamp(t *testing.T) {
	c, clk := newTestCache(5 * time.Minute)
	c.Set("k", "old")

	clk.Advance(4 * time.Minute)
	c.Set("k", "new")

	clk.Advance(4 * time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok, "rewrite must refresh the timestamp")
	assert.Equal(t, "new", v)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestKeyDeterminism(t *testing.T) {
	k1 := Key("/overall", models.Filters{"a": 1, "b": 2})
	k2 := Key("/overall", models.Filters{"b": 2, "a": 1})
	assert.Equal(t, k1, k2)
}

func TestKeyDropsEmptyValues(t *testing.T) {
	withEmpty := Key("/by-domain", models.Filters{"domain": "Electronics", "reviewer": "", "trainer": nil})
	without := Key("/by-domain", models.Filters{"domain": "Electronics"})
	assert.Equal(t, without, withEmpty)

	assert.Equal(t, "/by-domain", Key("/by-domain", nil))
	assert.Equal(t, "/by-domain", Key("/by-domain", models.Filters{"reviewer": ""}))
}

func TestStats(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("k", 1)
	c.Get("k") // hit
	c.Get("x") // miss

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
