package quality

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// SNRConfig parameterizes SNR.
type SNRConfig struct {
	Noise    NoiseConfig
	Template TemplateConfig
	Peak     PeakSign
	// Units restricts the computation. nil means all units.
	Units []int
}

// DefaultSNRConfig returns the default noise, template and peak settings.
func DefaultSNRConfig() SNRConfig {
	return SNRConfig{
		Noise:    DefaultNoiseConfig(),
		Template: DefaultTemplateConfig(),
		Peak:     PeakBoth,
	}
}

// TemplateSNR returns the peak absolute amplitude of template on row maxCh
// divided by that channel's noise level.
func TemplateSNR(template *recording.Block, noise []float64, maxCh int) float64 {
	peak := 0.0
	for _, v := range template.Row(maxCh) {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak / noise[maxCh]
}

// SNR returns the template signal-to-noise ratio of each selected unit.
// Units without spikes get NaN.
func SNR(ctx context.Context, src recording.Source, s Sorting, cfg SNRConfig) (map[int]float64, error) {
	units, err := selectUnits(s, cfg.Units)
	if err != nil {
		return nil, err
	}
	noise, err := NoiseLevels(src, cfg.Noise)
	if err != nil {
		return nil, err
	}
	templates, err := Templates(ctx, src, s, units, cfg.Template)
	if err != nil {
		return nil, err
	}

	snrs := make(map[int]float64, len(units))
	for _, unit := range units {
		t, ok := templates[unit]
		if !ok {
			snrs[unit] = math.NaN()
			continue
		}
		snrs[unit] = TemplateSNR(t, noise, MaxChannel(t, cfg.Peak))
	}
	return snrs, nil
}

// Epoch is a named time window of a recording, in seconds.
type Epoch struct {
	Name       string
	Start, End float64
}

// EpochSNR computes SNR separately for each epoch. Both the recording and
// the sorting are cut to the epoch window.
func EpochSNR(ctx context.Context, src recording.Source, s Sorting, cfg SNRConfig, epochs []Epoch) ([]map[int]float64, error) {
	fs := src.SamplingFrequency()
	out := make([]map[int]float64, len(epochs))
	for i, ep := range epochs {
		start, end := int(ep.Start*fs), int(ep.End*fs)
		sub, err := recording.Sub(src, start, end)
		if err != nil {
			return nil, fmt.Errorf("quality: epoch %q: %w", ep.Name, err)
		}
		snrs, err := SNR(ctx, sub, SubSorting(s, start, end), cfg)
		if err != nil {
			return nil, fmt.Errorf("quality: epoch %q: %w", ep.Name, err)
		}
		out[i] = snrs
	}
	return out, nil
}
