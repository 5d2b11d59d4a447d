package recording

// Block is a dense channel-major buffer of shape (Channels, Frames).
type Block struct {
	Channels int
	Frames   int
	Data     []float64
}

// NewBlock returns a zero-filled Block. Negative dimensions are treated as 0.
func NewBlock(channels, frames int) *Block {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	return &Block{
		Channels: channels,
		Frames:   frames,
		Data:     make([]float64, channels*frames),
	}
}

// FromRows copies equal-length rows into a new Block.
func FromRows(rows [][]float64) (*Block, error) {
	if len(rows) == 0 {
		return NewBlock(0, 0), nil
	}
	frames := len(rows[0])
	b := NewBlock(len(rows), frames)
	for i, r := range rows {
		if len(r) != frames {
			return nil, ErrRowLength
		}
		copy(b.Row(i), r)
	}
	return b, nil
}

// Row returns row ch as a sub-slice of Data. Mutations are visible in the block.
func (b *Block) Row(ch int) []float64 {
	return b.Data[ch*b.Frames : (ch+1)*b.Frames]
}

// At returns the sample at row ch, frame f.
func (b *Block) At(ch, f int) float64 {
	return b.Data[ch*b.Frames+f]
}

// Set stores v at row ch, frame f.
func (b *Block) Set(ch, f int, v float64) {
	b.Data[ch*b.Frames+f] = v
}

// Len returns the element count Channels*Frames.
func (b *Block) Len() int {
	return b.Channels * b.Frames
}

// SelectRows returns a new block holding rows idx in the given order.
// Indices may repeat.
func (b *Block) SelectRows(idx []int) *Block {
	out := NewBlock(len(idx), b.Frames)
	for i, r := range idx {
		copy(out.Row(i), b.Row(r))
	}
	return out
}
