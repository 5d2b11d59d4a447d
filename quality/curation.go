package quality

import (
	"fmt"
	"slices"
)

// ThresholdSign selects which units Threshold removes relative to the
// threshold.
type ThresholdSign int

const (
	Less ThresholdSign = iota
	LessOrEqual
	Greater
	GreaterOrEqual
)

// ParseThresholdSign parses "less", "less_or_equal", "greater" or
// "greater_or_equal".
func ParseThresholdSign(s string) (ThresholdSign, error) {
	switch s {
	case "less":
		return Less, nil
	case "less_or_equal":
		return LessOrEqual, nil
	case "greater":
		return Greater, nil
	case "greater_or_equal":
		return GreaterOrEqual, nil
	}
	return 0, fmt.Errorf("%w: threshold sign %q", ErrInvalidMode, s)
}

func (s ThresholdSign) excludes(v, threshold float64) bool {
	switch s {
	case Less:
		return v < threshold
	case LessOrEqual:
		return v <= threshold
	case Greater:
		return v > threshold
	case GreaterOrEqual:
		return v >= threshold
	}
	return false
}

// Threshold returns the units of metrics that survive curation, in
// ascending order. A unit is removed when its metric compares to threshold
// as sign says. NaN metrics never match and are kept.
func Threshold(metrics map[int]float64, threshold float64, sign ThresholdSign) []int {
	kept := make([]int, 0, len(metrics))
	for unit, v := range metrics {
		if !sign.excludes(v, threshold) {
			kept = append(kept, unit)
		}
	}
	slices.Sort(kept)
	return kept
}

// Curate returns s restricted to the units Threshold keeps. Units of s
// without a metric are kept.
func Curate(s Sorting, metrics map[int]float64, threshold float64, sign ThresholdSign) *MemorySorting {
	out := &MemorySorting{trains: make(map[int][]int)}
	for _, unit := range s.UnitIDs() {
		if v, ok := metrics[unit]; ok && sign.excludes(v, threshold) {
			continue
		}
		out.units = append(out.units, unit)
		out.trains[unit] = s.SpikeTrain(unit)
	}
	return out
}
