package stats

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/internal/testutil"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAccumulatorSquareWave(t *testing.T) {
	var a Accumulator
	a.Update([]float64{2, -2, 2, -2})
	c := a.Result(5)

	if c.ID != 5 || c.Frames != 4 {
		t.Fatalf("id %d frames %d", c.ID, c.Frames)
	}
	if !almostEqual(c.Mean, 0, tolerance) || !almostEqual(c.RMS, 2, tolerance) || !almostEqual(c.Std, 2, tolerance) {
		t.Errorf("mean %g rms %g std %g", c.Mean, c.RMS, c.Std)
	}
	if c.ZeroCrossings != 3 {
		t.Errorf("zero crossings = %d, want 3", c.ZeroCrossings)
	}
	if c.Max != 2 || c.MaxFrame != 0 || c.Min != -2 || c.MinFrame != 1 || c.Peak != 2 {
		t.Errorf("extrema %+v", c)
	}
	// Two-point distribution: excess kurtosis -2.
	if !almostEqual(c.Kurtosis, -2, 1e-9) {
		t.Errorf("kurtosis = %g, want -2", c.Kurtosis)
	}
}

func TestAccumulatorBlocksMatchSinglePass(t *testing.T) {
	x := testutil.GaussianNoise(3, 2, 10000)

	var whole, parts Accumulator
	whole.Update(x)
	for i := 0; i < len(x); i += 333 {
		parts.Update(x[i:min(i+333, len(x))])
	}

	w, p := whole.Result(0), parts.Result(0)
	if w != p {
		t.Fatalf("block-wise result differs:\n%+v\n%+v", p, w)
	}
	if !almostEqual(w.Std, 2, 0.05) || !almostEqual(w.Kurtosis, 0, 0.2) {
		t.Errorf("std %g kurtosis %g, want about 2 and 0", w.Std, w.Kurtosis)
	}
}

func TestAccumulatorEmptyAndReset(t *testing.T) {
	var a Accumulator
	if c := a.Result(1); c.Frames != 0 || c.RMS != 0 {
		t.Fatalf("empty result %+v", c)
	}
	a.Update([]float64{1, 2, 3})
	a.Reset()
	if a.Frames() != 0 {
		t.Fatalf("frames after reset = %d", a.Frames())
	}
}

func TestKurtosisFlagsSpikes(t *testing.T) {
	noise := testutil.GaussianNoise(1, 1, 20000)
	spiky := testutil.GaussianNoise(2, 1, 20000)
	for f := 100; f < len(spiky); f += 400 {
		spiky[f] -= 15
	}

	src := testutil.MemorySource(t, [][]float64{noise, spiky}, 30000, []int{4, 9})
	got, err := Compute(context.Background(), src, 0, recording.End, 3000)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got[0].ID != 4 || got[1].ID != 9 {
		t.Fatalf("ids %d %d", got[0].ID, got[1].ID)
	}
	if got[1].Kurtosis < 10*math.Max(got[0].Kurtosis, 1) {
		t.Fatalf("kurtosis noise %g spiky %g", got[0].Kurtosis, got[1].Kurtosis)
	}
	if got[1].MinFrame%400 != 100 {
		t.Fatalf("min frame %d is not a spike", got[1].MinFrame)
	}
}

func TestComputeWindow(t *testing.T) {
	src := testutil.MemorySource(t, testutil.Ramp(1, 100, 0), 1000, nil)
	got, err := Compute(context.Background(), src, 20, 50, 7)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	c := got[0]
	if c.Frames != 30 || c.Min != 20 || c.MinFrame != 20 || c.Max != 49 || c.MaxFrame != 49 {
		t.Fatalf("window stats %+v", c)
	}

	if _, err := Compute(context.Background(), src, 0, 10, 0); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("err = %v, want ErrInvalidStep", err)
	}
	if _, err := Compute(context.Background(), src, 50, 20, 5); !errors.Is(err, recording.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compute(ctx, src, 0, recording.End, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
