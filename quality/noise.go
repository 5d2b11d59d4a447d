package quality

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// NoiseMode selects the noise estimator.
type NoiseMode int

const (
	// NoiseMAD estimates noise as median(|x|) / 0.6745.
	NoiseMAD NoiseMode = iota
	// NoiseStd estimates noise as the population standard deviation.
	NoiseStd
)

// madScale converts a median absolute value to a Gaussian sigma.
const madScale = 0.6745

// ParseNoiseMode parses "mad" or "std".
func ParseNoiseMode(s string) (NoiseMode, error) {
	switch s {
	case "mad":
		return NoiseMAD, nil
	case "std":
		return NoiseStd, nil
	}
	return 0, fmt.Errorf("%w: noise mode %q", ErrInvalidMode, s)
}

func (m NoiseMode) String() string {
	switch m {
	case NoiseMAD:
		return "mad"
	case NoiseStd:
		return "std"
	}
	return fmt.Sprintf("NoiseMode(%d)", int(m))
}

// NoiseConfig parameterizes NoiseLevels.
type NoiseConfig struct {
	Mode NoiseMode
	// Duration is the length in seconds of the window the levels are
	// estimated from. The whole recording is used when it is shorter.
	Duration float64
	// Seed places the window.
	Seed int64
}

// DefaultNoiseConfig returns MAD noise over a 10 s window.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{Mode: NoiseMAD, Duration: 10}
}

// NoiseWindow returns the frame window NoiseLevels reads for src.
func NoiseWindow(src recording.Source, cfg NoiseConfig) (start, end int) {
	total := src.NumFrames()
	n := int(cfg.Duration * src.SamplingFrequency())
	if n >= total {
		return 0, total
	}
	start = rand.New(rand.NewSource(cfg.Seed)).Intn(total - n)
	return start, start + n
}

// NoiseLevels returns the noise level of each channel of src, in channel
// order.
func NoiseLevels(src recording.Source, cfg NoiseConfig) ([]float64, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: noise duration %v", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Mode != NoiseMAD && cfg.Mode != NoiseStd {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, cfg.Mode)
	}

	start, end := NoiseWindow(src, cfg)
	b, err := src.Traces(nil, start, end)
	if err != nil {
		return nil, fmt.Errorf("quality: read noise window: %w", err)
	}

	levels := make([]float64, b.Channels)
	for ch := range levels {
		if cfg.Mode == NoiseStd {
			levels[ch] = stddev(b.Row(ch))
		} else {
			levels[ch] = mad(b.Row(ch))
		}
	}
	return levels, nil
}

func stddev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	d := make([]float64, len(x))
	for i, v := range x {
		d[i] = v - mean
	}
	vecmath.MulBlockInPlace(d, d)

	sum := 0.0
	for _, v := range d {
		sum += v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func mad(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	a := make([]float64, len(x))
	for i, v := range x {
		a[i] = math.Abs(v)
	}
	return median(a) / madScale
}

// median sorts x in place.
func median(x []float64) float64 {
	slices.Sort(x)
	n := len(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}
