package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "stats <recording>",
		Short: "Print per-channel statistics of the filtered recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := a.openRecording(args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(rf, a.logger)

			var src recording.Source = rf
			step := preprocess.DefaultChunkSize
			if !raw {
				fr, err := a.filtered(rf)
				if err != nil {
					return err
				}
				src = fr
				if fr.ChunkSize() != preprocess.Unchunked {
					step = fr.ChunkSize()
				}
			}

			chans, err := stats.Compute(cmd.Context(), src, 0, recording.End, step)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "channel\tmean\tstd\tmin\tmax\tkurtosis")
			for _, c := range chans {
				fmt.Fprintf(tw, "%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.3g\n", c.ID, c.Mean, c.Std, c.Min, c.Max, c.Kurtosis)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Summarize the unfiltered recording")
	return cmd
}
