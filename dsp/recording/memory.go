package recording

import (
	"fmt"
	"slices"
)

// Memory is a Source backed by in-memory rows.
type Memory struct {
	ids  []int
	fs   float64
	data *Block
}

// NewMemory creates a source from rows, one per channel id. Rows are copied.
// A nil ids slice numbers channels 0..len(rows)-1.
func NewMemory(rows [][]float64, fs float64, ids []int) (*Memory, error) {
	if fs <= 0 {
		return nil, ErrSamplingFrequency
	}
	if ids == nil {
		ids = make([]int, len(rows))
		for i := range ids {
			ids[i] = i
		}
	}
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("%w: %d ids for %d rows", ErrChannelCount, len(ids), len(rows))
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateChannel, id)
		}
		seen[id] = struct{}{}
	}

	b, err := FromRows(rows)
	if err != nil {
		return nil, err
	}
	return &Memory{ids: append([]int(nil), ids...), fs: fs, data: b}, nil
}

// ChannelIDs implements Source. The returned slice is a copy.
func (m *Memory) ChannelIDs() []int { return slices.Clone(m.ids) }

// NumFrames implements Source.
func (m *Memory) NumFrames() int { return m.data.Frames }

// SamplingFrequency implements Source.
func (m *Memory) SamplingFrequency() float64 { return m.fs }

// Traces implements Source.
func (m *Memory) Traces(channelIDs []int, start, end int) (*Block, error) {
	start, end, err := ResolveRange(start, end, m.data.Frames)
	if err != nil {
		return nil, err
	}
	idx, err := ChannelIndex(m.ids, channelIDs)
	if err != nil {
		return nil, err
	}

	out := NewBlock(len(idx), end-start)
	for i, r := range idx {
		copy(out.Row(i), m.data.Row(r)[start:end])
	}
	return out, nil
}
