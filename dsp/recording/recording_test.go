package recording

import (
	"bytes"
	"errors"
	"testing"
)

func rampRows(channels, frames int) [][]float64 {
	rows := make([][]float64, channels)
	for ch := range rows {
		rows[ch] = make([]float64, frames)
		for f := range rows[ch] {
			rows[ch][f] = float64(ch*1000 + f)
		}
	}
	return rows
}

func TestMemoryTraces(t *testing.T) {
	m, err := NewMemory(rampRows(3, 20), 1000, []int{10, 11, 12})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	b, err := m.Traces([]int{12, 10, 12}, 5, 8)
	if err != nil {
		t.Fatalf("Traces: %v", err)
	}
	if b.Channels != 3 || b.Frames != 3 {
		t.Fatalf("shape = (%d, %d), want (3, 3)", b.Channels, b.Frames)
	}
	want := [][]float64{{2005, 2006, 2007}, {5, 6, 7}, {2005, 2006, 2007}}
	for ch, row := range want {
		for f, v := range row {
			if got := b.At(ch, f); got != v {
				t.Fatalf("b[%d][%d] = %v, want %v", ch, f, got, v)
			}
		}
	}
}

func TestMemoryDefaults(t *testing.T) {
	m, err := NewMemory(rampRows(2, 7), 1000, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	b, err := m.Traces(nil, 0, End)
	if err != nil {
		t.Fatalf("Traces: %v", err)
	}
	if b.Channels != 2 || b.Frames != 7 {
		t.Fatalf("shape = (%d, %d), want (2, 7)", b.Channels, b.Frames)
	}
	if Duration(m) != 0.007 {
		t.Fatalf("Duration = %v, want 0.007", Duration(m))
	}
}

func TestMemoryErrors(t *testing.T) {
	if _, err := NewMemory(rampRows(2, 4), 0, nil); !errors.Is(err, ErrSamplingFrequency) {
		t.Fatalf("err = %v, want ErrSamplingFrequency", err)
	}
	if _, err := NewMemory(rampRows(2, 4), 1, []int{1, 1}); !errors.Is(err, ErrDuplicateChannel) {
		t.Fatalf("err = %v, want ErrDuplicateChannel", err)
	}
	if _, err := NewMemory([][]float64{{1, 2}, {1}}, 1, nil); !errors.Is(err, ErrRowLength) {
		t.Fatalf("err = %v, want ErrRowLength", err)
	}

	m, _ := NewMemory(rampRows(2, 4), 1, nil)
	if _, err := m.Traces([]int{5}, 0, 1); !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("err = %v, want ErrUnknownChannel", err)
	}
	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 5}} {
		if _, err := m.Traces(nil, r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("range %v: err = %v, want ErrInvalidRange", r, err)
		}
	}
}

func TestPaddedTraces(t *testing.T) {
	m, _ := NewMemory(rampRows(2, 5), 1, nil)

	b, err := PaddedTraces(m, -2, 7)
	if err != nil {
		t.Fatalf("PaddedTraces: %v", err)
	}
	want := []float64{0, 0, 1000, 1001, 1002, 1003, 1004, 0, 0}
	for f, v := range want {
		if b.At(1, f) != v {
			t.Fatalf("row 1 = %v, want %v", b.Row(1), want)
		}
	}

	empty, err := PaddedTraces(m, 8, 10)
	if err != nil {
		t.Fatalf("PaddedTraces outside: %v", err)
	}
	for _, v := range empty.Data {
		if v != 0 {
			t.Fatalf("expected zeros outside recording, got %v", empty.Data)
		}
	}
}

func TestSub(t *testing.T) {
	m, _ := NewMemory(rampRows(1, 100), 10, nil)
	s, err := Sub(m, 40, 60)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if s.NumFrames() != 20 {
		t.Fatalf("NumFrames = %d, want 20", s.NumFrames())
	}
	b, err := s.Traces(nil, 5, End)
	if err != nil {
		t.Fatalf("Traces: %v", err)
	}
	if b.Frames != 15 || b.At(0, 0) != 45 || b.At(0, 14) != 59 {
		t.Fatalf("unexpected window: %v", b.Row(0))
	}
	if _, err := s.Traces(nil, 0, 21); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestChannelIndex(t *testing.T) {
	idx, err := ChannelIndex([]int{7, 3, 9}, []int{9, 7, 9})
	if err != nil {
		t.Fatalf("ChannelIndex: %v", err)
	}
	want := []int{2, 0, 2}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("idx = %v, want %v", idx, want)
		}
	}
}

func TestRawFileRoundTrip(t *testing.T) {
	for _, dt := range []DataType{Int16, Float32, Float64} {
		t.Run(dt.String(), func(t *testing.T) {
			src, _ := FromRows(rampRows(3, 50))

			var buf bytes.Buffer
			buf.Write(make([]byte, 16)) // header
			if err := WriteRaw(&buf, src, dt); err != nil {
				t.Fatalf("WriteRaw: %v", err)
			}

			rf, err := NewRawFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()), RawFileConfig{
				NumChannels:       3,
				SamplingFrequency: 30000,
				DataType:          dt,
				HeaderBytes:       16,
			})
			if err != nil {
				t.Fatalf("NewRawFile: %v", err)
			}
			if rf.NumFrames() != 50 {
				t.Fatalf("NumFrames = %d, want 50", rf.NumFrames())
			}

			b, err := rf.Traces([]int{2, 0}, 10, 20)
			if err != nil {
				t.Fatalf("Traces: %v", err)
			}
			for f := 0; f < 10; f++ {
				if b.At(0, f) != float64(2010+f) || b.At(1, f) != float64(10+f) {
					t.Fatalf("frame %d: got (%v, %v)", f, b.At(0, f), b.At(1, f))
				}
			}
		})
	}
}

func TestParseDataType(t *testing.T) {
	if dt, err := ParseDataType("FLOAT32"); err != nil || dt != Float32 {
		t.Fatalf("ParseDataType = %v, %v", dt, err)
	}
	if _, err := ParseDataType("uint8"); !errors.Is(err, ErrUnsupportedDataType) {
		t.Fatalf("err = %v, want ErrUnsupportedDataType", err)
	}
}

func TestWriteRawSaturatesInt16(t *testing.T) {
	b, _ := FromRows([][]float64{{40000, -40000, 1.6}})
	var buf bytes.Buffer
	if err := WriteRaw(&buf, b, Int16); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	rf, _ := NewRawFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()), RawFileConfig{NumChannels: 1, SamplingFrequency: 1})
	got, _ := rf.Traces(nil, 0, End)
	want := []float64{32767, -32768, 2}
	for i, v := range want {
		if got.At(0, i) != v {
			t.Fatalf("got %v, want %v", got.Row(0), want)
		}
	}
}
