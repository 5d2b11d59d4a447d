package recording

import (
	"errors"
	"fmt"
)

// End may be passed as the end frame of a read to mean NumFrames().
const End = -1

// Errors returned by sources.
var (
	ErrInvalidRange        = errors.New("recording: invalid frame range")
	ErrUnknownChannel      = errors.New("recording: unknown channel id")
	ErrDuplicateChannel    = errors.New("recording: duplicate channel id")
	ErrRowLength           = errors.New("recording: rows have different lengths")
	ErrChannelCount        = errors.New("recording: channel id count does not match data")
	ErrSamplingFrequency   = errors.New("recording: sampling frequency must be positive")
	ErrUnsupportedDataType = errors.New("recording: unsupported data type")
)

// Source is a random-access multi-channel trace provider.
type Source interface {
	// ChannelIDs returns the ordered channel ids.
	ChannelIDs() []int
	// NumFrames returns the total number of frames.
	NumFrames() int
	// SamplingFrequency returns the sampling rate in Hz.
	SamplingFrequency() float64
	// Traces returns the selected channels over [start, end).
	Traces(channelIDs []int, start, end int) (*Block, error)
}

// ResolveRange applies the default-filling rules of a read: end < 0 means
// numFrames. The resulting range must satisfy 0 <= start <= end <= numFrames.
func ResolveRange(start, end, numFrames int) (int, int, error) {
	if end < 0 {
		end = numFrames
	}
	if start < 0 || start > end || end > numFrames {
		return 0, 0, fmt.Errorf("%w: [%d, %d) of %d frames", ErrInvalidRange, start, end, numFrames)
	}
	return start, end, nil
}

// ChannelIndex maps each id in want to its position in ids, preserving the
// order of want. Duplicates in want are allowed. A nil want selects all ids.
func ChannelIndex(ids, want []int) ([]int, error) {
	if want == nil {
		idx := make([]int, len(ids))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}

	pos := make(map[int]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}

	idx := make([]int, len(want))
	for i, id := range want {
		p, ok := pos[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, id)
		}
		idx[i] = p
	}
	return idx, nil
}

// NumChannels returns len(src.ChannelIDs()).
func NumChannels(src Source) int {
	return len(src.ChannelIDs())
}

// Duration returns the recording length in seconds.
func Duration(src Source) float64 {
	return float64(src.NumFrames()) / src.SamplingFrequency()
}

// PaddedTraces reads all channels of src over [start, end), where the range
// may extend beyond the recording. Frames outside [0, NumFrames()) are zero.
func PaddedTraces(src Source, start, end int) (*Block, error) {
	n := src.NumFrames()
	out := NewBlock(NumChannels(src), end-start)

	lo, hi := max(start, 0), min(end, n)
	if lo >= hi {
		return out, nil
	}

	inner, err := src.Traces(nil, lo, hi)
	if err != nil {
		return nil, err
	}
	off := lo - start
	for ch := 0; ch < out.Channels; ch++ {
		copy(out.Row(ch)[off:off+inner.Frames], inner.Row(ch))
	}
	return out, nil
}
