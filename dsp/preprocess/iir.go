package preprocess

import (
	"fmt"

	"github.com/cwbudde/algo-spike/dsp/filter/biquad"
	"github.com/cwbudde/algo-spike/dsp/filter/design"
	"github.com/cwbudde/algo-spike/dsp/recording"
)

// ButterworthConfig parameterizes the zero-phase Butterworth bandpass.
type ButterworthConfig struct {
	FreqMin float64 // high-pass edge in Hz, zero disables
	FreqMax float64 // low-pass edge in Hz, zero disables
	Order   int
	Margin  int
}

// DefaultButterworthConfig returns a 3rd order 300-6000 Hz bandpass.
func DefaultButterworthConfig() ButterworthConfig {
	return ButterworthConfig{FreqMin: 300, FreqMax: 6000, Order: 3, Margin: 3000}
}

// NotchConfig parameterizes the zero-phase notch.
type NotchConfig struct {
	Freq   float64
	Q      float64
	Margin int
}

// DefaultNotchConfig returns a 50 Hz line-noise notch.
func DefaultNotchConfig() NotchConfig {
	return NotchConfig{Freq: 50, Q: 30, Margin: 3000}
}

type iirFilter struct {
	src    recording.Source
	coeffs []biquad.Coefficients
	margin int
}

// NewButterworth returns src filtered by a Butterworth highpass+lowpass
// cascade run forward and backward.
func NewButterworth(src recording.Source, cfg ButterworthConfig, opts ...Option) (*FilterRecording, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if cfg.Order <= 0 || cfg.Margin < 0 || (cfg.FreqMin == 0 && cfg.FreqMax == 0) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidFilterParams, cfg)
	}
	if cfg.FreqMax != 0 && cfg.FreqMax <= cfg.FreqMin {
		return nil, fmt.Errorf("%w: freq max %v <= freq min %v", ErrInvalidFilterParams, cfg.FreqMax, cfg.FreqMin)
	}

	coeffs := design.ButterworthBP(cfg.FreqMin, cfg.FreqMax, cfg.Order, src.SamplingFrequency())
	if coeffs == nil {
		return nil, fmt.Errorf("%w: band [%v, %v] at %v Hz", ErrInvalidFilterParams, cfg.FreqMin, cfg.FreqMax, src.SamplingFrequency())
	}
	return New(src, &iirFilter{src: src, coeffs: coeffs, margin: cfg.Margin}, opts...)
}

// NewNotch returns src with a narrow band around cfg.Freq removed.
func NewNotch(src recording.Source, cfg NotchConfig, opts ...Option) (*FilterRecording, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if cfg.Margin < 0 {
		return nil, fmt.Errorf("%w: negative margin", ErrInvalidFilterParams)
	}

	c := design.Notch(cfg.Freq, cfg.Q, src.SamplingFrequency())
	if c.IsZero() {
		return nil, fmt.Errorf("%w: notch at %v Hz", ErrInvalidFilterParams, cfg.Freq)
	}
	return New(src, &iirFilter{src: src, coeffs: []biquad.Coefficients{c}, margin: cfg.Margin}, opts...)
}

func (f *iirFilter) FilterChunk(start, end int) (*recording.Block, error) {
	padded, err := readWithMargin(f.src, start, end, f.margin)
	if err != nil {
		return nil, err
	}

	chain := biquad.NewChain(f.coeffs)
	for ch := 0; ch < padded.Channels; ch++ {
		chain.FiltFilt(padded.Row(ch))
	}

	return trimMargin(padded, f.margin, end-start), nil
}
