package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(t *testing.T, maxEntries int) (*Cache[string], *clock) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ctx, maxEntries, time.Hour, time.Hour)
	c.now = clk.now
	return c, clk
}

func TestKey(t *testing.T) {
	assert.Equal(t, "laptops|500", Key("laptops", 500))
	assert.NotEqual(t, Key("laptops", 5), Key("laptops", 50))
}

func TestGet_RespectsMaxAge(t *testing.T) {
	c, clk := newTestCache(t, 4)
	c.Set("k", "v")

	clk.t = clk.t.Add(30 * time.Second)

	v, ok := c.Get("k", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("k", 10*time.Second)
	assert.False(t, ok)

	_, ok = c.Get("k", 0)
	assert.False(t, ok)

	_, ok = c.Get("missing", time.Minute)
	assert.False(t, ok)
}

func TestSet_EvictsOldestAtCapacity(t *testing.T) {
	c, clk := newTestCache(t, 2)

	c.Set("a", "1")
	clk.t = clk.t.Add(time.Second)
	c.Set("b", "2")
	clk.t = clk.t.Add(time.Second)
	c.Set("c", "3")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a", time.Hour)
	assert.False(t, ok)
	_, ok = c.Get("c", time.Hour)
	assert.True(t, ok)
}

func TestSet_OverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")

	assert.Equal(t, 2, c.Len())
	v, _ := c.Get("a", time.Hour)
	assert.Equal(t, "3", v)
}

func TestEvict(t *testing.T) {
	c, clk := newTestCache(t, 4)
	c.Set("old", "1")
	clk.t = clk.t.Add(2 * time.Hour)
	c.Set("new", "2")

	c.evict(clk.t.Add(-time.Hour))

	assert.Equal(t, 1, c.Len())
}
