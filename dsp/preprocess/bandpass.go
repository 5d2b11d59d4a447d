package preprocess

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// BandpassConfig parameterizes the FFT bandpass.
type BandpassConfig struct {
	// FreqMin is the high-pass edge in Hz. Zero disables it.
	FreqMin float64
	// FreqMax is the low-pass edge in Hz. Zero disables it.
	FreqMax float64
	// FreqWidth controls the width of the tanh roll-off at both edges.
	FreqWidth float64
	// Margin is the number of frames read on each side of a chunk.
	Margin int
}

// DefaultBandpassConfig returns the usual spike band: 300-6000 Hz.
func DefaultBandpassConfig() BandpassConfig {
	return BandpassConfig{
		FreqMin:   300,
		FreqMax:   6000,
		FreqWidth: 1000,
		Margin:    3000,
	}
}

// DefaultBandpassChunkSize is the chunk size NewBandpass uses unless
// overridden.
const DefaultBandpassChunkSize = 30000

// Validate checks the config against the sampling frequency fs.
func (c BandpassConfig) Validate(fs float64) error {
	switch {
	case c.FreqMin < 0 || c.FreqMax < 0:
		return fmt.Errorf("%w: negative band edge", ErrInvalidFilterParams)
	case c.FreqMax != 0 && c.FreqMax <= c.FreqMin:
		return fmt.Errorf("%w: freq max %v <= freq min %v", ErrInvalidFilterParams, c.FreqMax, c.FreqMin)
	case c.FreqMax >= fs/2:
		return fmt.Errorf("%w: freq max %v beyond Nyquist", ErrInvalidFilterParams, c.FreqMax)
	case c.FreqWidth <= 0:
		return fmt.Errorf("%w: freq width must be positive", ErrInvalidFilterParams)
	case c.Margin < 0:
		return fmt.Errorf("%w: negative margin", ErrInvalidFilterParams)
	}
	return nil
}

type bandpassFilter struct {
	src recording.Source
	cfg BandpassConfig
}

// NewBandpass returns src filtered by a frequency-domain bandpass with smooth
// edges. Each chunk is read with a margin on both sides, transformed, scaled
// by the band kernel and transformed back; the margins are discarded.
func NewBandpass(src recording.Source, cfg BandpassConfig, opts ...Option) (*FilterRecording, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := cfg.Validate(src.SamplingFrequency()); err != nil {
		return nil, err
	}
	opts = append([]Option{WithChunkSize(DefaultBandpassChunkSize)}, opts...)
	return New(src, &bandpassFilter{src: src, cfg: cfg}, opts...)
}

func (f *bandpassFilter) FilterChunk(start, end int) (*recording.Block, error) {
	m := f.cfg.Margin
	padded, err := readWithMargin(f.src, start, end, m)
	if err != nil {
		return nil, err
	}

	n := nextPowerOf2(padded.Frames)
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("preprocess: failed to create FFT plan: %w", err)
	}
	kernel := bandpassKernel(n, f.src.SamplingFrequency(), f.cfg)

	in := make([]complex128, n)
	spec := make([]complex128, n)
	re := make([]float64, n)
	im := make([]float64, n)

	for ch := 0; ch < padded.Channels; ch++ {
		row := padded.Row(ch)
		for i := range in {
			in[i] = 0
		}
		for i, x := range row {
			in[i] = complex(x, 0)
		}

		if err := plan.Forward(spec, in); err != nil {
			return nil, err
		}
		for i, c := range spec {
			re[i] = real(c)
			im[i] = imag(c)
		}
		vecmath.MulBlockInPlace(re, kernel)
		vecmath.MulBlockInPlace(im, kernel)
		for i := range spec {
			spec[i] = complex(re[i], im[i])
		}
		if err := plan.Inverse(in, spec); err != nil {
			return nil, err
		}

		for i := range row {
			row[i] = real(in[i])
		}
	}

	return trimMargin(padded, m, end-start), nil
}

// bandpassKernel returns the gain for each of the n FFT bins:
// sqrt of the product of tanh-shaped high-pass and low-pass edges.
func bandpassKernel(n int, fs float64, cfg BandpassConfig) []float64 {
	df := fs / float64(n)
	kernel := make([]float64, n)
	for k := range kernel {
		kk := k
		if k > (n+1)/2 {
			kk = k - n
		}
		absf := math.Abs(df * float64(kk))

		val := 1.0
		if cfg.FreqMin != 0 {
			val *= (1 + math.Tanh((absf-cfg.FreqMin)/cfg.FreqWidth)) / 2
		}
		if cfg.FreqMax != 0 {
			val *= (1 - math.Tanh((absf-cfg.FreqMax)/cfg.FreqWidth)) / 2
		}
		kernel[k] = math.Sqrt(val)
	}
	return kernel
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
