package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/recording"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <recording>",
		Short: "Print the layout of a raw recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := a.openRecording(args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(rf, a.logger)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "channels: %d\n", recording.NumChannels(rf))
			fmt.Fprintf(w, "channel_ids: %v\n", rf.ChannelIDs())
			fmt.Fprintf(w, "frames: %d\n", rf.NumFrames())
			fmt.Fprintf(w, "sampling_frequency: %g\n", rf.SamplingFrequency())
			fmt.Fprintf(w, "duration: %.3fs\n", recording.Duration(rf))
			fmt.Fprintf(w, "dtype: %s\n", a.cfg.Recording.DataType)
			return nil
		},
	}
}
