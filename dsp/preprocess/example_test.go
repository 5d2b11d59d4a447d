package preprocess_test

import (
	"fmt"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/recording"
)

func ExampleNew() {
	rows := make([][]float64, 4)
	for ch := range rows {
		rows[ch] = make([]float64, 10000)
		for f := range rows[ch] {
			rows[ch][f] = float64(ch*100000 + f)
		}
	}
	src, err := recording.NewMemory(rows, 30000, nil)
	if err != nil {
		panic(err)
	}

	// Scale every sample by 2, one chunk at a time.
	double := preprocess.FilterFunc(func(start, end int) (*recording.Block, error) {
		b, err := src.Traces(nil, start, end)
		if err != nil {
			return nil, err
		}
		for i := range b.Data {
			b.Data[i] *= 2
		}
		return b, nil
	})

	r, err := preprocess.New(src, double, preprocess.WithChunkSize(4000), preprocess.WithCache(true))
	if err != nil {
		panic(err)
	}

	out, err := r.Read([]int{2, 0}, 3500, 4500)
	if err != nil {
		panic(err)
	}
	stats, _ := r.CacheStats()

	fmt.Println(out.Channels, out.Frames)
	fmt.Println(out.At(0, 0), out.At(1, 999))
	fmt.Println(stats.Entries)
	// Output:
	// 2 1000
	// 407000 8998
	// 2
}
