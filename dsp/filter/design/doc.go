// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad: RBJ-style second-order sections (Lowpass, Highpass,
// Notch) and Butterworth cascades of arbitrary order.
//
// Invalid parameters (non-positive sample rate, frequency outside
// (0, Nyquist)) yield zero coefficients or a nil cascade.
package design
