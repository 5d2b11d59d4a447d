package testutil

import (
	"sync"
	"testing"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// MemorySource builds an in-memory recording or fails t.
func MemorySource(t *testing.T, rows [][]float64, fs float64, ids []int) *recording.Memory {
	t.Helper()
	m, err := recording.NewMemory(rows, fs, ids)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	return m
}

// CountingFilter passes traces of Src through unchanged and records every
// call. It is safe for concurrent use.
type CountingFilter struct {
	Src recording.Source

	mu     sync.Mutex
	calls  int
	ranges [][2]int
}

// FilterChunk returns the raw traces over [start, end).
func (f *CountingFilter) FilterChunk(start, end int) (*recording.Block, error) {
	f.mu.Lock()
	f.calls++
	f.ranges = append(f.ranges, [2]int{start, end})
	f.mu.Unlock()
	return f.Src.Traces(nil, start, end)
}

// Calls returns the number of FilterChunk calls so far.
func (f *CountingFilter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Ranges returns the requested ranges in call order.
func (f *CountingFilter) Ranges() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int(nil), f.ranges...)
}
