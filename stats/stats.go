// Package stats summarizes recording channels in a single streaming pass.
//
// Statistics are accumulated chunk by chunk, so a channel summary of an
// arbitrarily long recording needs only one chunk in memory.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// ErrInvalidStep is returned for a non-positive read step.
var ErrInvalidStep = errors.New("stats: read step must be positive")

// Channel holds the statistics of one channel.
type Channel struct {
	ID            int
	Frames        int
	Mean          float64
	RMS           float64
	Std           float64
	Min           float64
	MinFrame      int
	Max           float64
	MaxFrame      int
	Peak          float64 // max(|Min|, |Max|)
	ZeroCrossings int
	// Kurtosis is the excess kurtosis. Spiking channels are strongly
	// positive; Gaussian noise is near zero.
	Kurtosis float64
}

// Accumulator collects channel statistics over consecutive blocks of
// samples using Welford updates for the moments.
type Accumulator struct {
	n              int
	mean, m2, m4   float64
	m3             float64
	sumSq          float64
	minVal, maxVal float64
	minPos, maxPos int
	zeroCrossings  int
	last           float64
}

// Update appends samples, which continue the stream at frame Frames().
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		if a.n == 0 {
			a.minVal, a.maxVal = x, x
		} else {
			if x > a.maxVal {
				a.maxVal, a.maxPos = x, a.n
			}
			if x < a.minVal {
				a.minVal, a.minPos = x, a.n
			}
			if a.last*x < 0 {
				a.zeroCrossings++
			}
		}

		a.n++
		ni := float64(a.n)
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		// m4 before m3 before m2.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(ni-2) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		a.sumSq += x * x
		a.last = x
	}
}

// Frames returns the number of samples seen.
func (a *Accumulator) Frames() int { return a.n }

// Result returns the statistics so far. id is copied into the result.
func (a *Accumulator) Result(id int) Channel {
	c := Channel{ID: id, Frames: a.n}
	if a.n == 0 {
		return c
	}

	nf := float64(a.n)
	variance := a.m2 / nf
	c.Mean = a.mean
	c.RMS = math.Sqrt(a.sumSq / nf)
	c.Std = math.Sqrt(variance)
	c.Min, c.MinFrame = a.minVal, a.minPos
	c.Max, c.MaxFrame = a.maxVal, a.maxPos
	c.Peak = math.Max(math.Abs(a.minVal), math.Abs(a.maxVal))
	c.ZeroCrossings = a.zeroCrossings
	if variance > 0 {
		c.Kurtosis = (a.m4/nf)/(variance*variance) - 3
	}
	return c
}

// Reset clears the accumulator.
func (a *Accumulator) Reset() { *a = Accumulator{} }

// Compute reads src over [start, end) in blocks of step frames and returns
// the statistics of every channel in channel order. end < 0 means
// NumFrames().
func Compute(ctx context.Context, src recording.Source, start, end, step int) ([]Channel, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	start, end, err := recording.ResolveRange(start, end, src.NumFrames())
	if err != nil {
		return nil, err
	}

	ids := src.ChannelIDs()
	acc := make([]Accumulator, len(ids))
	for s := start; s < end; s += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := src.Traces(nil, s, min(s+step, end))
		if err != nil {
			return nil, fmt.Errorf("stats: read [%d, %d): %w", s, min(s+step, end), err)
		}
		for ch := range acc {
			acc[ch].Update(b.Row(ch))
		}
	}

	out := make([]Channel, len(ids))
	for ch, id := range ids {
		out[ch] = acc[ch].Result(id)
		out[ch].MinFrame += start
		out[ch].MaxFrame += start
	}
	return out, nil
}
