package preprocess

import (
	"github.com/go-kit/log"

	"github.com/cwbudde/algo-spike/dsp/preprocess/chunkcache"
)

// DefaultChunkSize is the chunk size used when no option sets one.
const DefaultChunkSize = 10000

// Unchunked is the chunk size sentinel that disables chunking.
const Unchunked = 0

type config struct {
	chunkSize    int
	cache        bool
	cacheMaxSize int
	logger       log.Logger
	metrics      *Metrics
}

// Option configures a FilterRecording.
type Option func(*config)

func defaultConfig() config {
	return config{
		chunkSize:    DefaultChunkSize,
		cacheMaxSize: chunkcache.DefaultMaxSize,
		logger:       log.NewNopLogger(),
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// WithChunkSize sets the filtering window in frames. Zero disables chunking.
func WithChunkSize(n int) Option {
	return func(cfg *config) { cfg.chunkSize = n }
}

// WithoutChunking filters each read in a single call over the exact
// requested range.
func WithoutChunking() Option {
	return func(cfg *config) { cfg.chunkSize = Unchunked }
}

// WithCache enables or disables retention of filtered chunks.
func WithCache(enabled bool) Option {
	return func(cfg *config) { cfg.cache = enabled }
}

// WithCacheMaxSize sets the cache capacity in elements and enables caching.
// Non-positive values keep the default capacity.
func WithCacheMaxSize(n int) Option {
	return func(cfg *config) {
		cfg.cache = true
		if n > 0 {
			cfg.cacheMaxSize = n
		}
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) { cfg.metrics = m }
}
