package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-spike/quality"
)

// readSpikes loads a sorting from a CSV file of "unit,frame" records. A
// leading header row is skipped.
func readSpikes(path string) (*quality.MemorySorting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spikes: %w", err)
	}
	defer f.Close()
	return parseSpikes(f)
}

func parseSpikes(r io.Reader) (*quality.MemorySorting, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	trains := map[int][]int{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spikes: %w", err)
		}
		if line == 1 && strings.EqualFold(rec[0], "unit") {
			continue
		}

		unit, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("spikes line %d: unit: %w", line, err)
		}
		frame, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("spikes line %d: frame: %w", line, err)
		}
		trains[unit] = append(trains[unit], frame)
	}
	return quality.NewMemorySorting(trains)
}
