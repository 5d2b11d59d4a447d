package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/recording"
)

var errDiskFull = errors.New("disk full")

// failingCloser accepts every write and fails on Close.
type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errDiskFull
}

func TestWriteOutputReportsCloseError(t *testing.T) {
	src, err := recording.NewMemory(rampRows(300), 1000, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	fr, err := preprocess.NewIdentity(src, preprocess.WithChunkSize(64))
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	out := &failingCloser{}
	err = writeOutput(cmd, fr, out, recording.Int16)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want %v", err, errDiskFull)
	}
	if !out.closed {
		t.Fatal("output not closed")
	}
	if want := 300 * 2 * recording.Int16.Size(); out.Len() != want {
		t.Fatalf("wrote %d bytes, want %d", out.Len(), want)
	}
}
