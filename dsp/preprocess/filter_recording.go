package preprocess

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/singleflight"

	"github.com/cwbudde/algo-spike/dsp/preprocess/chunkcache"
	"github.com/cwbudde/algo-spike/dsp/recording"
)

// FilterRecording presents filtered reads over a raw source. It implements
// recording.Source, so filtered recordings can be stacked.
//
// FilterRecording is safe for concurrent use. Concurrent misses on the same
// chunk are collapsed into one filter call.
type FilterRecording struct {
	src       recording.Source
	filter    Filter
	ids       []int
	numFrames int
	chunkSize int

	mu    sync.Mutex
	cache *chunkcache.Cache
	group singleflight.Group

	logger  log.Logger
	metrics *Metrics
}

// New wraps src with filter f.
func New(src recording.Source, f Filter, opts ...Option) (*FilterRecording, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if f == nil {
		return nil, ErrNilFilter
	}

	cfg := applyOptions(opts)
	if cfg.chunkSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, cfg.chunkSize)
	}

	r := &FilterRecording{
		src:       src,
		filter:    f,
		ids:       slices.Clone(src.ChannelIDs()),
		numFrames: src.NumFrames(),
		chunkSize: cfg.chunkSize,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}
	if cfg.cache && cfg.chunkSize != Unchunked {
		r.cache = chunkcache.New(chunkcache.WithMaxSize(cfg.cacheMaxSize))
	}

	return r, nil
}

// ChannelIDs implements recording.Source. The returned slice is a copy.
func (r *FilterRecording) ChannelIDs() []int { return slices.Clone(r.ids) }

// NumFrames implements recording.Source.
func (r *FilterRecording) NumFrames() int { return r.numFrames }

// SamplingFrequency implements recording.Source.
func (r *FilterRecording) SamplingFrequency() float64 { return r.src.SamplingFrequency() }

// Traces implements recording.Source by delegating to Read.
func (r *FilterRecording) Traces(channelIDs []int, start, end int) (*recording.Block, error) {
	return r.Read(channelIDs, start, end)
}

// ChunkSize returns the chunk size in frames, or Unchunked.
func (r *FilterRecording) ChunkSize() int { return r.chunkSize }

// CacheEnabled reports whether filtered chunks are retained.
func (r *FilterRecording) CacheEnabled() bool { return r.cache != nil }

// CacheStats returns the chunk cache counters. ok is false when caching is
// disabled.
func (r *FilterRecording) CacheStats() (stats chunkcache.Stats, ok bool) {
	if r.cache == nil {
		return chunkcache.Stats{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Stats(), true
}

// Source returns the wrapped raw source.
func (r *FilterRecording) Source() recording.Source { return r.src }

// ReadChannel reads a single channel over [start, end).
func (r *FilterRecording) ReadChannel(id, start, end int) (*recording.Block, error) {
	return r.Read([]int{id}, start, end)
}

// Read returns filtered traces for channelIDs over [start, end).
//
// A nil channelIDs selects all channels in source order; ids may be given in
// any order and may repeat. end < 0 (recording.End) means NumFrames().
func (r *FilterRecording) Read(channelIDs []int, start, end int) (*recording.Block, error) {
	start, end, err := recording.ResolveRange(start, end, r.numFrames)
	if err != nil {
		return nil, err
	}
	idx, err := recording.ChannelIndex(r.ids, channelIDs)
	if err != nil {
		return nil, err
	}
	if start == end {
		return recording.NewBlock(len(idx), 0), nil
	}

	if r.chunkSize == Unchunked {
		b, err := r.filterRange(start, end)
		if err != nil {
			return nil, fmt.Errorf("preprocess: filter frames [%d, %d): %w", start, end, err)
		}
		return b.SelectRows(idx), nil
	}

	return r.readChunked(idx, start, end)
}

func (r *FilterRecording) readChunked(idx []int, start, end int) (*recording.Block, error) {
	c := r.chunkSize
	ich1 := start / c
	ich2 := (end - 1) / c

	out := recording.NewBlock(len(idx), end-start)
	pos := 0
	for ich := ich1; ich <= ich2; ich++ {
		chunk, err := r.filteredChunk(ich)
		if err != nil {
			return nil, err
		}

		start0, end0 := 0, c
		if ich == ich1 {
			start0 = start - ich*c
		}
		if ich == ich2 {
			end0 = end - ich*c
		}

		n := end0 - start0
		for i, row := range idx {
			copy(out.Row(i)[pos:pos+n], chunk.Row(row)[start0:end0])
		}
		pos += n
	}

	return out, nil
}

// chunkExtent returns the frame range of chunk ich, clamped to NumFrames().
func (r *FilterRecording) chunkExtent(ich int) (int, int) {
	start := ich * r.chunkSize
	return start, min(start+r.chunkSize, r.numFrames)
}

func (r *FilterRecording) filteredChunk(ich int) (*recording.Block, error) {
	if r.cache == nil {
		return r.computeChunk(ich)
	}

	r.mu.Lock()
	b, ok := r.cache.Get(ich)
	r.mu.Unlock()
	if ok {
		r.metrics.hit()
		return b, nil
	}

	// Callers that wait on another caller's load count as hits.
	ran := false
	v, err, _ := r.group.Do(strconv.Itoa(ich), func() (any, error) {
		ran = true
		r.mu.Lock()
		b, ok := r.cache.Get(ich)
		r.mu.Unlock()
		if ok {
			r.metrics.hit()
			return b, nil
		}

		r.metrics.miss()
		level.Debug(r.logger).Log("msg", "chunk cache miss", "chunk", ich)

		b, err := r.computeChunk(ich)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		evicted := r.cache.Add(ich, b)
		size := r.cache.Size()
		r.mu.Unlock()

		r.metrics.cacheUpdated(evicted, size)
		if evicted > 0 {
			level.Debug(r.logger).Log("msg", "chunk cache sweep", "evicted", evicted, "size", size)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if !ran {
		r.metrics.hit()
	}

	return v.(*recording.Block), nil
}

func (r *FilterRecording) computeChunk(ich int) (*recording.Block, error) {
	start, end := r.chunkExtent(ich)
	b, err := r.filterRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("preprocess: filter chunk %d: %w", ich, err)
	}
	return b, nil
}

func (r *FilterRecording) filterRange(start, end int) (*recording.Block, error) {
	b, err := r.filter.FilterChunk(start, end)
	if err != nil {
		return nil, err
	}
	if b == nil || b.Channels != len(r.ids) || b.Frames != end-start {
		return nil, fmt.Errorf("%w: want (%d, %d)", ErrFilterShape, len(r.ids), end-start)
	}
	r.metrics.filtered(b.Frames)
	return b, nil
}
