package layoutcache

import (
	"math"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textflow/engine/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layout(n int) *position.Layout {
	return &position.Layout{TextLength: n}
}

func TestGetPut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	c := New(4)
	_, ok := c.Get(1)
	assert.False(t, ok)
	l := layout(1)
	c.Put(1, l)
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Same(t, l, got, "hits share the cached layout")
	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Size)
	assert.Equal(t, 4, s.Capacity)
}

func TestEviction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.layout")
	defer teardown()
	//
	c := New(2)
	c.Put(1, layout(1))
	c.Put(2, layout(2))
	c.Get(1) // 2 is least recently used now
	c.Put(3, layout(3))
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(2)
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestLastWriterWins(t *testing.T) {
	c := New(2)
	c.Put(1, layout(1))
	second := layout(2)
	c.Put(1, second)
	got, _ := c.Get(1)
	assert.Same(t, second, got)
	assert.Equal(t, 1, c.Len())
	c.Put(2, nil)
	assert.Equal(t, 1, c.Len(), "nil layouts are not stored")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, DefaultCapacity, New(0).Stats().Capacity)
}

func TestConcurrentUse(t *testing.T) {
	c := New(8)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				k := Key(i % 16)
				if _, ok := c.Get(k); !ok {
					c.Put(k, layout(i))
				}
			}
		}(g)
	}
	wg.Wait()
	s := c.Stats()
	assert.LessOrEqual(t, s.Size, 8)
	assert.Equal(t, uint64(800), s.Hits+s.Misses)
}

func TestHasher(t *testing.T) {
	k1 := NewHasher().String("Hello").Float(100).Bool(true).Sum()
	k2 := NewHasher().String("Hello").Float(100).Bool(true).Sum()
	assert.Equal(t, k1, k2, "keys are deterministic")
	assert.NotEqual(t, k1, NewHasher().String("Hello").Float(101).Bool(true).Sum())
	assert.NotEqual(t,
		NewHasher().String("ab").String("c").Sum(),
		NewHasher().String("a").String("bc").Sum(), "strings are delimited")
	assert.NotEqual(t, NewHasher().Int(1).Sum(), NewHasher().Bool(true).Sum())
	assert.Equal(t, NewHasher().Float(0).Sum(), NewHasher().Float(math.Copysign(0, -1)).Sum())
	assert.Len(t, k1.String(), 16)
}
