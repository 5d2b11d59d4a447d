package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/quality"
)

func newNoiseCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "noise <recording>",
		Short: "Print the noise level of each channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := a.openRecording(args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(rf, a.logger)

			var src recording.Source = rf
			if !raw {
				if src, err = a.filtered(rf); err != nil {
					return err
				}
			}

			ncfg, err := a.cfg.NoiseLevels()
			if err != nil {
				return err
			}
			levels, err := quality.NoiseLevels(src, ncfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, id := range src.ChannelIDs() {
				fmt.Fprintf(w, "%d\t%.6g\n", id, levels[i])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Measure the unfiltered recording")
	return cmd
}
