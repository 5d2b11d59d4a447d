package recording

// SubRecording is a frame window [start, end) of a parent source, re-based
// so that its frame 0 is the parent's frame start.
type SubRecording struct {
	parent     Source
	start, end int
}

// Sub returns the window [start, end) of src. end < 0 means NumFrames().
func Sub(src Source, start, end int) (*SubRecording, error) {
	start, end, err := ResolveRange(start, end, src.NumFrames())
	if err != nil {
		return nil, err
	}
	return &SubRecording{parent: src, start: start, end: end}, nil
}

// ChannelIDs implements Source.
func (s *SubRecording) ChannelIDs() []int { return s.parent.ChannelIDs() }

// NumFrames implements Source.
func (s *SubRecording) NumFrames() int { return s.end - s.start }

// SamplingFrequency implements Source.
func (s *SubRecording) SamplingFrequency() float64 { return s.parent.SamplingFrequency() }

// Traces implements Source.
func (s *SubRecording) Traces(channelIDs []int, start, end int) (*Block, error) {
	start, end, err := ResolveRange(start, end, s.NumFrames())
	if err != nil {
		return nil, err
	}
	return s.parent.Traces(channelIDs, s.start+start, s.start+end)
}
