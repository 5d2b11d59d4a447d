package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/recording"
)

func newFilterCmd(a *app) *cobra.Command {
	var outDtype string

	cmd := &cobra.Command{
		Use:   "filter <recording> <output>",
		Short: "Filter a raw recording and write the result as a raw file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := a.openRecording(args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(rf, a.logger)

			dt := a.cfg.Recording.DataType
			if outDtype != "" {
				dt = outDtype
			}
			dtype, err := recording.ParseDataType(dt)
			if err != nil {
				return err
			}

			fr, err := a.filtered(rf)
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}

			began := time.Now()
			if err := writeOutput(cmd, fr, out, dtype); err != nil {
				return err
			}

			level.Info(a.logger).Log("msg", "filtered recording",
				"filter", a.cfg.Filter.Kind,
				"frames", fr.NumFrames(),
				"channels", recording.NumChannels(fr),
				"chunk_size", fr.ChunkSize(),
				"elapsed", time.Since(began))
			if stats, ok := fr.CacheStats(); ok {
				level.Debug(a.logger).Log("msg", "chunk cache", "entries", stats.Entries, "size", stats.Size, "evictions", stats.Evictions, "sweeps", stats.Sweeps)
			}
			a.logMetrics()
			return nil
		},
	}

	cmd.Flags().StringVar(&outDtype, "out-dtype", "", "Sample type of the output (defaults to recording.dtype)")
	return cmd
}

// writeOutput writes fr to out and closes it. A failed close is returned,
// since it may hide a failed write.
func writeOutput(cmd *cobra.Command, fr *preprocess.FilterRecording, out io.WriteCloser, dtype recording.DataType) error {
	w := bufio.NewWriter(out)
	err := writeFiltered(cmd, fr, w, dtype)
	if err == nil {
		if err = w.Flush(); err != nil {
			err = fmt.Errorf("write output: %w", err)
		}
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}

// writeFiltered reads fr chunk by chunk in frame order and writes each
// block interleaved to w.
func writeFiltered(cmd *cobra.Command, fr *preprocess.FilterRecording, w *bufio.Writer, dtype recording.DataType) error {
	step := fr.ChunkSize()
	if step == preprocess.Unchunked {
		step = preprocess.DefaultChunkSize
	}

	n := fr.NumFrames()
	for start := 0; start < n; start += step {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		end := min(start+step, n)
		b, err := fr.Read(nil, start, end)
		if err != nil {
			return err
		}
		if err := recording.WriteRaw(w, b, dtype); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
