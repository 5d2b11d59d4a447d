// Package chunkcache provides a size-bounded store for filtered chunks.
//
// Entries are evicted strictly in insertion order. When the total size
// exceeds the configured maximum, the oldest entries are dropped until the
// total falls to at most half the maximum. Lookups never affect eviction
// order.
package chunkcache

import "github.com/cwbudde/algo-spike/dsp/recording"

// DefaultMaxSize is the default capacity in elements.
const DefaultMaxSize = 100 * 1024 * 1024

type entry struct {
	block *recording.Block
	size  int
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int
	Size      int
	MaxSize   int
	Evictions int
	Sweeps    int
}

// Cache maps chunk indices to filtered blocks. It is not safe for
// concurrent use.
type Cache struct {
	entries map[int]entry
	order   []int // live keys, oldest first
	total   int
	maxSize int

	evictions int
	sweeps    int
}

type config struct {
	maxSize int
}

// Option configures a Cache.
type Option func(*config)

// WithMaxSize sets the capacity in elements. Non-positive values are ignored.
func WithMaxSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxSize = n
		}
	}
}

// New returns an empty Cache.
func New(opts ...Option) *Cache {
	cfg := config{maxSize: DefaultMaxSize}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return &Cache{
		entries: make(map[int]entry),
		maxSize: cfg.maxSize,
	}
}

// Get returns the block stored under key.
func (c *Cache) Get(key int) (*recording.Block, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.block, true
}

// Add stores b under key and returns the number of entries evicted as a
// result. Re-adding an existing key replaces its block in place: the key
// keeps its queue position and the total is adjusted by the size delta.
//
// A block larger than the capacity is accepted; the sweep then evicts
// everything older, possibly including the block itself.
func (c *Cache) Add(key int, b *recording.Block) int {
	size := b.Len()
	if old, ok := c.entries[key]; ok {
		c.total -= old.size
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{block: b, size: size}
	c.total += size

	if c.total <= c.maxSize {
		return 0
	}
	return c.sweep()
}

// sweep drops the oldest entries until total <= maxSize/2.
func (c *Cache) sweep() int {
	c.sweeps++
	i := 0
	for i < len(c.order) && 2*c.total > c.maxSize {
		key := c.order[i]
		c.total -= c.entries[key].size
		delete(c.entries, key)
		i++
	}
	c.order = append(c.order[:0:0], c.order[i:]...)
	c.evictions += i
	return i
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return len(c.entries) }

// Size returns the total element count of live entries.
func (c *Cache) Size() int { return c.total }

// MaxSize returns the configured capacity in elements.
func (c *Cache) MaxSize() int { return c.maxSize }

// Keys returns the live keys, oldest first.
func (c *Cache) Keys() []int {
	return append([]int(nil), c.order...)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:   len(c.entries),
		Size:      c.total,
		MaxSize:   c.maxSize,
		Evictions: c.evictions,
		Sweeps:    c.sweeps,
	}
}

// Reset drops all entries. Counters are kept.
func (c *Cache) Reset() {
	c.entries = make(map[int]entry)
	c.order = nil
	c.total = 0
}
