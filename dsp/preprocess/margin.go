package preprocess

import "github.com/cwbudde/algo-spike/dsp/recording"

// readWithMargin reads all channels over [start-margin, end+margin), zero
// filled beyond the recording.
func readWithMargin(src recording.Source, start, end, margin int) (*recording.Block, error) {
	return recording.PaddedTraces(src, start-margin, end+margin)
}

// trimMargin copies frames [margin, margin+frames) of every row of padded.
func trimMargin(padded *recording.Block, margin, frames int) *recording.Block {
	out := recording.NewBlock(padded.Channels, frames)
	for ch := 0; ch < out.Channels; ch++ {
		copy(out.Row(ch), padded.Row(ch)[margin:margin+frames])
	}
	return out
}
