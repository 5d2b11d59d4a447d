package chunkcache

import (
	"testing"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

func block(size int) *recording.Block {
	return recording.NewBlock(1, size)
}

func sumSizes(t *testing.T, c *Cache) int {
	t.Helper()
	total := 0
	for _, k := range c.Keys() {
		b, ok := c.Get(k)
		if !ok {
			t.Fatalf("key %d in order but not stored", k)
		}
		total += b.Len()
	}
	return total
}

func TestGetMiss(t *testing.T) {
	c := New()
	if _, ok := c.Get(3); ok {
		t.Fatal("empty cache reported a hit")
	}
	if c.MaxSize() != DefaultMaxSize {
		t.Fatalf("MaxSize = %d, want %d", c.MaxSize(), DefaultMaxSize)
	}
}

func TestAddGet(t *testing.T) {
	c := New(WithMaxSize(100))
	b := block(10)
	if n := c.Add(4, b); n != 0 {
		t.Fatalf("Add evicted %d entries, want 0", n)
	}
	got, ok := c.Get(4)
	if !ok || got != b {
		t.Fatal("Get did not return the stored block")
	}
	if c.Size() != 10 || c.Len() != 1 {
		t.Fatalf("Size=%d Len=%d, want 10 and 1", c.Size(), c.Len())
	}
}

func TestEvictionBoundary(t *testing.T) {
	c := New(WithMaxSize(100))
	c.Add(0, block(30))
	c.Add(1, block(30))
	c.Add(2, block(30))
	if c.Stats().Sweeps != 0 {
		t.Fatal("sweep ran below capacity")
	}

	// 90 + 11 = M + 1 triggers exactly one sweep down to <= M/2.
	evicted := c.Add(3, block(11))
	if evicted != 2 {
		t.Fatalf("evicted %d entries, want 2", evicted)
	}

	st := c.Stats()
	if st.Sweeps != 1 || st.Evictions != 2 {
		t.Fatalf("stats = %+v, want 1 sweep and 2 evictions", st)
	}
	if c.Size() != 41 {
		t.Fatalf("Size = %d, want 41", c.Size())
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != 2 || keys[1] != 3 {
		t.Fatalf("Keys = %v, want [2 3]", keys)
	}
	if sumSizes(t, c) != c.Size() {
		t.Fatalf("total %d does not match entries", c.Size())
	}
}

func TestExactlyAtCapacityDoesNotEvict(t *testing.T) {
	c := New(WithMaxSize(100))
	c.Add(0, block(60))
	if n := c.Add(1, block(40)); n != 0 {
		t.Fatalf("evicted %d entries at exactly capacity", n)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestGetDoesNotReorder(t *testing.T) {
	c := New(WithMaxSize(100))
	c.Add(1, block(30))
	c.Add(2, block(30))
	c.Add(3, block(30))

	// Touching the oldest key must not protect it.
	if _, ok := c.Get(1); !ok {
		t.Fatal("missing key 1")
	}
	c.Add(4, block(20))

	if _, ok := c.Get(1); ok {
		t.Fatal("key 1 survived eviction after Get")
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != 3 || keys[1] != 4 {
		t.Fatalf("Keys = %v, want [3 4]", keys)
	}
}

func TestOversizedEntryAccepted(t *testing.T) {
	c := New(WithMaxSize(10))
	c.Add(0, block(4))
	evicted := c.Add(1, block(20))
	if evicted != 2 {
		t.Fatalf("evicted %d entries, want 2", evicted)
	}
	if c.Len() != 0 || c.Size() != 0 {
		t.Fatalf("Len=%d Size=%d, want empty cache", c.Len(), c.Size())
	}

	// The cache keeps working afterwards.
	c.Add(2, block(3))
	if _, ok := c.Get(2); !ok {
		t.Fatal("cache unusable after oversized entry")
	}
}

func TestDuplicateKeyOverwrites(t *testing.T) {
	c := New(WithMaxSize(100))
	c.Add(1, block(4))
	c.Add(2, block(6))
	replacement := block(2)
	c.Add(1, replacement)

	if c.Size() != 8 {
		t.Fatalf("Size = %d, want 8", c.Size())
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != 1 || keys[1] != 2 {
		t.Fatalf("Keys = %v, want [1 2]", keys)
	}
	if got, _ := c.Get(1); got != replacement {
		t.Fatal("duplicate add did not replace the block")
	}
	if sumSizes(t, c) != c.Size() {
		t.Fatal("size accounting drifted after overwrite")
	}
}

func TestReset(t *testing.T) {
	c := New(WithMaxSize(10))
	c.Add(0, block(4))
	c.Add(1, block(20))
	c.Add(2, block(3))
	c.Reset()
	if c.Len() != 0 || c.Size() != 0 || len(c.Keys()) != 0 {
		t.Fatal("Reset left entries behind")
	}
	if c.Stats().Evictions != 2 {
		t.Fatalf("Reset cleared counters: %+v", c.Stats())
	}
}

func TestTotalMatchesEntriesUnderChurn(t *testing.T) {
	c := New(WithMaxSize(1000))
	for i := 0; i < 500; i++ {
		c.Add(i%37, block(1+(i*7)%90))
		if c.Size() > c.MaxSize() {
			t.Fatalf("step %d: Size %d exceeds MaxSize", i, c.Size())
		}
		if got := sumSizes(t, c); got != c.Size() {
			t.Fatalf("step %d: entries sum to %d, total %d", i, got, c.Size())
		}
	}
}
