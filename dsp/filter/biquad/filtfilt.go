package biquad

// FiltFilt applies the cascade forward, then backward over buf in place,
// giving a zero-phase response with squared magnitude. The chain state is
// reset before each pass, so the result depends on buf alone.
func (c *Chain) FiltFilt(buf []float64) {
	c.Reset()
	c.ProcessBlock(buf)
	reverse(buf)

	c.Reset()
	c.ProcessBlock(buf)
	reverse(buf)

	c.Reset()
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
