// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain]. [FiltFilt] runs a cascade forward and backward over a block for
// zero-phase filtering of recorded traces.
//
// Coefficient design lives in dsp/filter/design.
package biquad
