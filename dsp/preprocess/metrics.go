package preprocess

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for chunked filtering.
type Metrics struct {
	ChunkHits      prometheus.Counter
	ChunkMisses    prometheus.Counter
	ChunkEvictions prometheus.Counter
	FilterCalls    prometheus.Counter
	FilteredFrames prometheus.Counter
	CacheElements  prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChunkHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spike_filter_chunk_cache_hits_total",
			Help: "Filtered chunks served from the chunk cache",
		}),
		ChunkMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spike_filter_chunk_cache_misses_total",
			Help: "Chunk cache lookups that required filtering",
		}),
		ChunkEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spike_filter_chunk_cache_evictions_total",
			Help: "Filtered chunks evicted from the chunk cache",
		}),
		FilterCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spike_filter_calls_total",
			Help: "Calls into the filter implementation",
		}),
		FilteredFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spike_filter_frames_total",
			Help: "Frames produced by the filter implementation",
		}),
		CacheElements: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spike_filter_chunk_cache_elements",
			Help: "Samples currently held in the chunk cache",
		}),
	}

	reg.MustRegister(m.ChunkHits, m.ChunkMisses, m.ChunkEvictions, m.FilterCalls, m.FilteredFrames, m.CacheElements)

	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.ChunkHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.ChunkMisses.Inc()
	}
}

func (m *Metrics) filtered(frames int) {
	if m != nil {
		m.FilterCalls.Inc()
		m.FilteredFrames.Add(float64(frames))
	}
}

func (m *Metrics) cacheUpdated(evicted, size int) {
	if m != nil {
		m.ChunkEvictions.Add(float64(evicted))
		m.CacheElements.Set(float64(size))
	}
}
