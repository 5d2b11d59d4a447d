package biquad

import (
	"math"
	"testing"
)

func TestChainCascadesSections(t *testing.T) {
	a := Coefficients{B0: 0.5, B1: 0.5}
	b := Coefficients{B0: 2}
	c := NewChain([]Coefficients{a, b}, WithGain(3))

	if c.NumSections() != 2 || c.Gain() != 3 {
		t.Fatalf("NumSections=%d Gain=%v", c.NumSections(), c.Gain())
	}

	// y = 2 * 0.5 * (3x[n] + 3x[n-1])
	buf := []float64{1, 0, 0}
	c.ProcessBlock(buf)
	want := []float64{3, 3, 0}
	for i := range want {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}
}

func TestFiltFiltZeroPhase(t *testing.T) {
	// A symmetric input filtered forward-backward stays symmetric.
	coeffs := []Coefficients{{B0: 0.2, B1: 0.2, A1: -0.6}}
	buf := make([]float64, 101)
	for i := range buf {
		d := float64(i - 50)
		buf[i] = math.Exp(-d * d / 50)
	}

	NewChain(coeffs).FiltFilt(buf)
	for i := 0; i < 50; i++ {
		if !almostEqual(buf[i], buf[100-i], 1e-9) {
			t.Fatalf("asymmetric output at %d: %v vs %v", i, buf[i], buf[100-i])
		}
	}
}

func TestFiltFiltIsRepeatable(t *testing.T) {
	c := NewChain([]Coefficients{{B0: 0.3, B1: 0.3, A1: -0.4}})
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3, 4, 5}
	c.FiltFilt(a)
	c.FiltFilt(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("repeat differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestChainResponseUnityPassthrough(t *testing.T) {
	c := NewChain([]Coefficients{{B0: 1}})
	if db := c.MagnitudeDB(1000, 48000); !almostEqual(db, 0, 1e-12) {
		t.Fatalf("MagnitudeDB = %v, want 0", db)
	}
	if db := c.ZeroPhaseMagnitudeDB(1000, 48000); !almostEqual(db, 0, 1e-12) {
		t.Fatalf("ZeroPhaseMagnitudeDB = %v, want 0", db)
	}
}
