package preprocess

import (
	"errors"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// Errors returned by the engine and filters.
var (
	ErrNilSource           = errors.New("preprocess: nil source")
	ErrNilFilter           = errors.New("preprocess: nil filter")
	ErrInvalidChunkSize    = errors.New("preprocess: chunk size must not be negative")
	ErrFilterShape         = errors.New("preprocess: filter returned a block of the wrong shape")
	ErrInvalidFilterParams = errors.New("preprocess: invalid filter parameters")
)

// Filter computes filtered traces for all source channels over the
// absolute frame range [start, end). Implementations must return a block of
// shape (numChannels, end-start) and must be pure: the same range always
// yields the same content.
type Filter interface {
	FilterChunk(start, end int) (*recording.Block, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(start, end int) (*recording.Block, error)

// FilterChunk implements Filter.
func (f FilterFunc) FilterChunk(start, end int) (*recording.Block, error) {
	return f(start, end)
}

type identityFilter struct {
	src recording.Source
}

func (f identityFilter) FilterChunk(start, end int) (*recording.Block, error) {
	return f.src.Traces(nil, start, end)
}

// NewIdentity returns a FilterRecording that passes traces through
// unchanged. It is mostly useful to get chunked, cached reads of a slow
// source.
func NewIdentity(src recording.Source, opts ...Option) (*FilterRecording, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return New(src, identityFilter{src: src}, opts...)
}
