package rendercache

import (
	"errors"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	_, ok := c.Get("z1", "1")
	assert.False(t, ok)

	c.Put("z1", "1", "$ORIGIN example.com.\n")
	got, ok := c.Get("z1", "1")
	require.True(t, ok)
	assert.Equal(t, "$ORIGIN example.com.\n", got)

	hits, misses, _ := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestRenderCache_StaleStampMisses(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("z1", "serial=1", "old")
	_, ok := c.Get("z1", "serial=2")
	assert.False(t, ok)

	c.Put("z1", "serial=2", "new")
	got, ok := c.Get("z1", "serial=2")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestRenderCache_Invalidate(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("z1", "1", "text")
	c.Invalidate("z1")
	_, ok := c.Get("z1", "1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	c.Invalidate("never-cached")
}

func TestRenderCache_Eviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("a", "1", "a")
	c.Put("b", "1", "b")
	c.Put("c", "1", "c")
	assert.Equal(t, 2, c.Len())
	_, _, evictions := c.Stats()
	assert.Equal(t, uint64(1), evictions)

	_, ok := c.Get("a", "1")
	assert.False(t, ok, "oldest entry evicted")
}

func TestRenderCache_Disabled(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)

	c.Put("z1", "1", "text")
	_, ok := c.Get("z1", "1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Invalidate("z1")
	h, m, e := c.Stats()
	assert.Zero(t, h+m+e)
}

func TestNewLRU_Error(t *testing.T) {
	orig := newLRU
	defer func() { newLRU = orig }()
	newLRU = func(int, func(string, entry)) (*lru.Cache[string, entry], error) {
		return nil, errors.New("cache creation error")
	}
	_, err := New(1)
	require.Error(t, err)
}
