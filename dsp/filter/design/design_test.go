package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-spike/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mag(c biquad.Coefficients, freq, sr float64) float64 {
	return cmplx.Abs(c.Response(freq, sr))
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	sr := 30000.0
	f := 1000.0
	q := 1 / math.Sqrt2

	lp := Lowpass(f, q, sr)
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}
	if !almostEqual(mag(lp, 1e-3, sr), 1, 1e-6) {
		t.Fatalf("lowpass DC gain = %v, want 1", mag(lp, 1e-3, sr))
	}

	hp := Highpass(f, q, sr)
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}

	n := Notch(f, q, sr)
	if !(mag(n, f, sr) < 1e-6) {
		t.Fatalf("notch gain at center = %v, want ~0", mag(n, f, sr))
	}
}

func TestDesignersRejectInvalidParams(t *testing.T) {
	for _, tc := range []struct {
		name       string
		freq, rate float64
	}{
		{"zero rate", 1000, 0},
		{"zero freq", 0, 30000},
		{"at nyquist", 15000, 30000},
		{"nan", math.NaN(), 30000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if !Lowpass(tc.freq, 0.7, tc.rate).IsZero() {
				t.Fatal("Lowpass accepted invalid params")
			}
			if !Notch(tc.freq, 0.7, tc.rate).IsZero() {
				t.Fatal("Notch accepted invalid params")
			}
			if ButterworthHP(tc.freq, 4, tc.rate) != nil {
				t.Fatal("ButterworthHP accepted invalid params")
			}
		})
	}
}

func TestButterworthSectionCount(t *testing.T) {
	for order := 1; order <= 6; order++ {
		got := len(ButterworthLP(1000, order, 30000))
		if want := (order + 1) / 2; got != want {
			t.Fatalf("order %d: %d sections, want %d", order, got, want)
		}
	}
	if ButterworthLP(1000, 0, 30000) != nil {
		t.Fatal("order 0 should yield nil")
	}
}

func TestButterworthCutoffIsMinus3dB(t *testing.T) {
	sr := 30000.0
	for _, order := range []int{2, 3, 4} {
		lp := biquad.NewChain(ButterworthLP(2000, order, sr))
		if db := lp.MagnitudeDB(2000, sr); !almostEqual(db, -3.0103, 0.01) {
			t.Fatalf("LP order %d: %v dB at cutoff", order, db)
		}
		hp := biquad.NewChain(ButterworthHP(300, order, sr))
		if db := hp.MagnitudeDB(300, sr); !almostEqual(db, -3.0103, 0.01) {
			t.Fatalf("HP order %d: %v dB at cutoff", order, db)
		}
	}
}

func TestButterworthBP(t *testing.T) {
	sr := 30000.0
	bp := biquad.NewChain(ButterworthBP(300, 6000, 3, sr))
	if bp.NumSections() != 4 {
		t.Fatalf("NumSections = %d, want 4", bp.NumSections())
	}
	if db := bp.MagnitudeDB(1500, sr); db < -0.5 {
		t.Fatalf("passband gain %v dB", db)
	}
	if db := bp.MagnitudeDB(20, sr); db > -40 {
		t.Fatalf("stopband gain at 20 Hz %v dB", db)
	}

	lpOnly := ButterworthBP(0, 6000, 2, sr)
	if len(lpOnly) != 1 {
		t.Fatalf("lowpass-only design has %d sections", len(lpOnly))
	}
	if ButterworthBP(300, 20000, 2, sr) != nil {
		t.Fatal("high edge above Nyquist should yield nil")
	}
}
