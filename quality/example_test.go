package quality_test

import (
	"fmt"

	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/quality"
)

func ExampleThreshold() {
	snrs := map[int]float64{1: 2.5, 2: 7.1, 3: 11.8}

	// Drop units whose SNR is below 5.
	kept := quality.Threshold(snrs, 5, quality.Less)
	fmt.Println(kept)
	// Output: [2 3]
}

func ExampleTemplateSNR() {
	rows := [][]float64{
		{0.1, -0.3, 0.2},
		{1.0, -12.0, 4.0},
	}
	tmpl, _ := recording.FromRows(rows)
	noise := []float64{1, 3}

	ch := quality.MaxChannel(tmpl, quality.PeakNeg)
	fmt.Println(ch, quality.TemplateSNR(tmpl, noise, ch))
	// Output: 1 4
}
