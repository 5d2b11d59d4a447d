package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireBlockEqual fails t unless got and want have the same shape and
// identical samples.
func RequireBlockEqual(t *testing.T, got, want *recording.Block) {
	t.Helper()
	RequireBlockNearlyEqual(t, got, want, 0)
}

// RequireBlockNearlyEqual fails t unless got and want have the same shape
// and all samples agree within eps.
func RequireBlockNearlyEqual(t *testing.T, got, want *recording.Block, eps float64) {
	t.Helper()
	if got.Channels != want.Channels || got.Frames != want.Frames {
		t.Fatalf("shape mismatch: got (%d, %d), want (%d, %d)", got.Channels, got.Frames, want.Channels, want.Frames)
	}
	for ch := 0; ch < got.Channels; ch++ {
		for f := 0; f < got.Frames; f++ {
			if diff := math.Abs(got.At(ch, f) - want.At(ch, f)); diff > eps {
				t.Fatalf("[%d][%d]: got %v, want %v", ch, f, got.At(ch, f), want.At(ch, f))
			}
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}
