package quality

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Errors returned by the quality metrics.
var (
	ErrNoUnits       = errors.New("quality: no units")
	ErrInvalidSpike  = errors.New("quality: spike frame must not be negative")
	ErrInvalidMode   = errors.New("quality: invalid mode")
	ErrInvalidConfig = errors.New("quality: invalid configuration")
)

// Sorting is the output of a spike sorter: a spike train per unit.
type Sorting interface {
	// UnitIDs returns the unit ids in ascending order.
	UnitIDs() []int
	// SpikeTrain returns the sorted spike frames of unit.
	SpikeTrain(unit int) []int
}

// MemorySorting is a Sorting backed by a map of spike trains.
type MemorySorting struct {
	units  []int
	trains map[int][]int
}

// NewMemorySorting copies and sorts trains.
func NewMemorySorting(trains map[int][]int) (*MemorySorting, error) {
	s := &MemorySorting{trains: make(map[int][]int, len(trains))}
	for unit, train := range trains {
		t := slices.Clone(train)
		slices.Sort(t)
		if len(t) > 0 && t[0] < 0 {
			return nil, fmt.Errorf("%w: unit %d frame %d", ErrInvalidSpike, unit, t[0])
		}
		s.trains[unit] = t
	}
	s.units = slices.Sorted(maps.Keys(s.trains))
	return s, nil
}

// UnitIDs implements Sorting.
func (s *MemorySorting) UnitIDs() []int { return s.units }

// SpikeTrain implements Sorting. Unknown units have an empty train.
func (s *MemorySorting) SpikeTrain(unit int) []int { return s.trains[unit] }

// SubSorting returns the spikes of s in [start, end), re-based to start.
// Units without spikes in the window are kept with empty trains.
func SubSorting(s Sorting, start, end int) *MemorySorting {
	out := &MemorySorting{units: slices.Clone(s.UnitIDs()), trains: make(map[int][]int)}
	for _, unit := range out.units {
		train := s.SpikeTrain(unit)
		lo, _ := slices.BinarySearch(train, start)
		hi, _ := slices.BinarySearch(train, end)
		t := make([]int, 0, hi-lo)
		for _, f := range train[lo:hi] {
			t = append(t, f-start)
		}
		out.trains[unit] = t
	}
	return out
}

// selectUnits resolves the requested units against s. nil means all units.
// Requested ids missing from s are dropped.
func selectUnits(s Sorting, want []int) ([]int, error) {
	all := s.UnitIDs()
	if want == nil {
		if len(all) == 0 {
			return nil, ErrNoUnits
		}
		return all, nil
	}

	units := make([]int, 0, len(want))
	for _, u := range want {
		if _, found := slices.BinarySearch(all, u); found && !slices.Contains(units, u) {
			units = append(units, u)
		}
	}
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	slices.Sort(units)
	return units, nil
}
