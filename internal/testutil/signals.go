package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates normally distributed noise with standard deviation
// sigma and a fixed seed.
func GaussianNoise(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// Ramp returns rows where sample f of channel ch is ch*scale + f, so every
// value identifies its position.
func Ramp(channels, frames int, scale float64) [][]float64 {
	rows := make([][]float64, channels)
	for ch := range rows {
		rows[ch] = make([]float64, frames)
		for f := range rows[ch] {
			rows[ch][f] = float64(ch)*scale + float64(f)
		}
	}
	return rows
}

// AddInPlace adds src into dst element-wise over the shorter length.
func AddInPlace(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}
