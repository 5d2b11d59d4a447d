package quality

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// TemplateMode selects how waveforms are averaged.
type TemplateMode int

const (
	TemplateMedian TemplateMode = iota
	TemplateMean
)

// ParseTemplateMode parses "median" or "mean".
func ParseTemplateMode(s string) (TemplateMode, error) {
	switch s {
	case "median":
		return TemplateMedian, nil
	case "mean":
		return TemplateMean, nil
	}
	return 0, fmt.Errorf("%w: template mode %q", ErrInvalidMode, s)
}

// TemplateConfig parameterizes Templates.
type TemplateConfig struct {
	Mode TemplateMode
	// MsBefore and MsAfter set the waveform window around each spike.
	MsBefore float64
	MsAfter  float64
	// MaxSpikes caps the spikes per unit; a seeded random subset is used
	// beyond it. Zero means no cap.
	MaxSpikes int
	Seed      int64
	// Workers bounds concurrent units. Zero means GOMAXPROCS.
	Workers int
}

// DefaultTemplateConfig returns median templates over [-3 ms, 3 ms) from at
// most 1000 spikes.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{Mode: TemplateMedian, MsBefore: 3, MsAfter: 3, MaxSpikes: 1000}
}

func (c TemplateConfig) frames(fs float64) (before, after int) {
	return int(c.MsBefore * fs / 1000), int(c.MsAfter * fs / 1000)
}

// Templates returns the template of each unit: a (channels, before+after)
// block averaged over the unit's waveforms. Waveforms reaching past the
// recording are zero padded. Units without spikes are absent from the
// result.
func Templates(ctx context.Context, src recording.Source, s Sorting, units []int, cfg TemplateConfig) (map[int]*recording.Block, error) {
	units, err := selectUnits(s, units)
	if err != nil {
		return nil, err
	}
	if cfg.MsBefore < 0 || cfg.MsAfter < 0 || cfg.MaxSpikes < 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidConfig, cfg)
	}
	if cfg.Mode != TemplateMedian && cfg.Mode != TemplateMean {
		return nil, fmt.Errorf("%w: template mode %d", ErrInvalidMode, cfg.Mode)
	}
	before, after := cfg.frames(src.SamplingFrequency())
	if before+after == 0 {
		return nil, fmt.Errorf("%w: empty waveform window", ErrInvalidConfig)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]*recording.Block, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, unit := range units {
		train := pickSpikes(s.SpikeTrain(unit), cfg.MaxSpikes, cfg.Seed)
		if len(train) == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := unitTemplate(src, train, before, after, cfg.Mode)
			if err != nil {
				return fmt.Errorf("quality: template of unit %d: %w", unit, err)
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	templates := make(map[int]*recording.Block, len(units))
	for i, unit := range units {
		if out[i] != nil {
			templates[unit] = out[i]
		}
	}
	return templates, nil
}

// pickSpikes returns at most limit spikes of train, chosen at random with
// seed and kept in time order.
func pickSpikes(train []int, limit int, seed int64) []int {
	if limit == 0 || len(train) <= limit {
		return train
	}
	perm := rand.New(rand.NewSource(seed)).Perm(len(train))[:limit]
	slices.Sort(perm)
	picked := make([]int, limit)
	for i, p := range perm {
		picked[i] = train[p]
	}
	return picked
}

func unitTemplate(src recording.Source, train []int, before, after int, mode TemplateMode) (*recording.Block, error) {
	width := before + after
	waves := make([]*recording.Block, len(train))
	for i, f := range train {
		w, err := recording.PaddedTraces(src, f-before, f+after)
		if err != nil {
			return nil, err
		}
		waves[i] = w
	}

	t := recording.NewBlock(waves[0].Channels, width)
	if mode == TemplateMean {
		for _, w := range waves {
			vecmath.AddBlockInPlace(t.Data, w.Data)
		}
		vecmath.ScaleBlock(t.Data, t.Data, 1/float64(len(waves)))
		return t, nil
	}

	col := make([]float64, len(waves))
	for i := range t.Data {
		for k, w := range waves {
			col[k] = w.Data[i]
		}
		t.Data[i] = median(col)
	}
	return t, nil
}

// PeakSign selects which template extremum defines the max channel.
type PeakSign int

const (
	PeakBoth PeakSign = iota
	PeakNeg
	PeakPos
)

// ParsePeakSign parses "both", "neg" or "pos".
func ParsePeakSign(s string) (PeakSign, error) {
	switch s {
	case "both":
		return PeakBoth, nil
	case "neg":
		return PeakNeg, nil
	case "pos":
		return PeakPos, nil
	}
	return 0, fmt.Errorf("%w: peak sign %q", ErrInvalidMode, s)
}

// MaxChannel returns the row of template with the largest peak: the most
// negative minimum for PeakNeg, the largest maximum for PeakPos and the
// largest absolute value for PeakBoth.
func MaxChannel(template *recording.Block, sign PeakSign) int {
	best, bestCh := math.Inf(-1), 0
	for ch := 0; ch < template.Channels; ch++ {
		row := template.Row(ch)
		var v float64
		switch sign {
		case PeakNeg:
			v = -slices.Min(row)
		case PeakPos:
			v = slices.Max(row)
		default:
			v = math.Max(-slices.Min(row), slices.Max(row))
		}
		if v > best {
			best, bestCh = v, ch
		}
	}
	return bestCh
}
