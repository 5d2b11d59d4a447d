package recording

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
)

// DataType identifies the on-disk sample encoding of a raw file.
type DataType int

const (
	Int16 DataType = iota
	Float32
	Float64
)

// ParseDataType parses "int16", "float32" or "float64".
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(s) {
	case "int16":
		return Int16, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDataType, s)
	}
}

// Size returns the encoded sample size in bytes.
func (d DataType) Size() int {
	switch d {
	case Int16:
		return 2
	case Float32:
		return 4
	default:
		return 8
	}
}

func (d DataType) String() string {
	switch d {
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	default:
		return "float64"
	}
}

// RawFileConfig describes the layout of a raw recording file.
type RawFileConfig struct {
	NumChannels       int
	SamplingFrequency float64
	DataType          DataType
	// HeaderBytes are skipped at the start of the file.
	HeaderBytes int64
	// ChannelIDs defaults to 0..NumChannels-1.
	ChannelIDs []int
}

// RawFile is a Source reading frame-interleaved little-endian samples
// (frame 0 channel 0, frame 0 channel 1, ...) from a file.
type RawFile struct {
	r      io.ReaderAt
	closer io.Closer
	cfg    RawFileConfig
	frames int
}

// OpenRawFile opens path and derives the frame count from its size.
func OpenRawFile(path string, cfg RawFileConfig) (*RawFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: open raw file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("recording: stat raw file: %w", err)
	}
	rf, err := NewRawFile(f, st.Size(), cfg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rf.closer = f
	return rf, nil
}

// NewRawFile wraps r, holding size bytes, as a Source.
func NewRawFile(r io.ReaderAt, size int64, cfg RawFileConfig) (*RawFile, error) {
	if cfg.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrChannelCount, cfg.NumChannels)
	}
	if cfg.SamplingFrequency <= 0 {
		return nil, ErrSamplingFrequency
	}
	cfg.ChannelIDs = slices.Clone(cfg.ChannelIDs)
	if cfg.ChannelIDs == nil {
		cfg.ChannelIDs = make([]int, cfg.NumChannels)
		for i := range cfg.ChannelIDs {
			cfg.ChannelIDs[i] = i
		}
	}
	if len(cfg.ChannelIDs) != cfg.NumChannels {
		return nil, fmt.Errorf("%w: %d ids for %d channels", ErrChannelCount, len(cfg.ChannelIDs), cfg.NumChannels)
	}

	frameBytes := int64(cfg.NumChannels * cfg.DataType.Size())
	payload := size - cfg.HeaderBytes
	if payload < 0 {
		payload = 0
	}
	return &RawFile{r: r, cfg: cfg, frames: int(payload / frameBytes)}, nil
}

// ChannelIDs implements Source. The returned slice is a copy.
func (f *RawFile) ChannelIDs() []int { return slices.Clone(f.cfg.ChannelIDs) }

// NumFrames implements Source.
func (f *RawFile) NumFrames() int { return f.frames }

// SamplingFrequency implements Source.
func (f *RawFile) SamplingFrequency() float64 { return f.cfg.SamplingFrequency }

// Traces implements Source.
func (f *RawFile) Traces(channelIDs []int, start, end int) (*Block, error) {
	start, end, err := ResolveRange(start, end, f.frames)
	if err != nil {
		return nil, err
	}
	idx, err := ChannelIndex(f.cfg.ChannelIDs, channelIDs)
	if err != nil {
		return nil, err
	}

	nch := f.cfg.NumChannels
	ss := f.cfg.DataType.Size()
	buf := make([]byte, (end-start)*nch*ss)
	off := f.cfg.HeaderBytes + int64(start*nch*ss)
	if _, err := f.r.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("recording: read frames [%d, %d): %w", start, end, err)
	}

	out := NewBlock(len(idx), end-start)
	for fr := 0; fr < out.Frames; fr++ {
		base := fr * nch * ss
		for i, ch := range idx {
			out.Set(i, fr, decodeSample(buf[base+ch*ss:], f.cfg.DataType))
		}
	}
	return out, nil
}

// Close closes the underlying file when the source was opened by OpenRawFile.
func (f *RawFile) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func decodeSample(b []byte, dt DataType) float64 {
	switch dt {
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

func encodeSample(b []byte, v float64, dt DataType) {
	switch dt {
	case Int16:
		v = math.Round(v)
		v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// WriteRaw writes b frame-interleaved to w using the given encoding.
// Int16 output is rounded and saturated.
func WriteRaw(w io.Writer, b *Block, dt DataType) error {
	ss := dt.Size()
	buf := make([]byte, b.Channels*ss)
	for fr := 0; fr < b.Frames; fr++ {
		for ch := 0; ch < b.Channels; ch++ {
			encodeSample(buf[ch*ss:], b.At(ch, fr), dt)
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("recording: write frame %d: %w", fr, err)
		}
	}
	return nil
}
