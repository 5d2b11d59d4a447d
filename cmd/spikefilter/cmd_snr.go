package main

import (
	"fmt"
	"math"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/quality"
)

type snrFlags struct {
	spikes        string
	templateMode  string
	peak          string
	msBefore      float64
	msAfter       float64
	maxSpikes     int
	seed          int64
	threshold     float64
	thresholdSign string
}

func newSNRCmd(a *app) *cobra.Command {
	var f snrFlags

	cmd := &cobra.Command{
		Use:   "snr <recording>",
		Short: "Print the template SNR of each unit of a sorting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.snrConfig(a)
			if err != nil {
				return err
			}
			sorting, err := readSpikes(f.spikes)
			if err != nil {
				return err
			}

			rf, err := a.openRecording(args[0])
			if err != nil {
				return err
			}
			defer closeQuietly(rf, a.logger)
			fr, err := a.filtered(rf)
			if err != nil {
				return err
			}

			snrs, err := quality.SNR(cmd.Context(), fr, sorting, cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, unit := range sorting.UnitIDs() {
				if v, ok := snrs[unit]; ok {
					fmt.Fprintf(w, "%d\t%.4g\n", unit, v)
				}
			}

			if !math.IsNaN(f.threshold) {
				sign, err := quality.ParseThresholdSign(f.thresholdSign)
				if err != nil {
					return err
				}
				kept := quality.Threshold(snrs, f.threshold, sign)
				fmt.Fprintf(w, "kept: %v\n", kept)
				level.Info(a.logger).Log("msg", "curated units", "kept", len(kept), "removed", len(snrs)-len(kept))
			}
			a.logMetrics()
			return nil
		},
	}

	def := quality.DefaultTemplateConfig()
	fl := cmd.Flags()
	fl.StringVar(&f.spikes, "spikes", "", "CSV file of unit,frame spike records")
	fl.StringVar(&f.templateMode, "template-mode", "median", "Template averaging: median or mean")
	fl.StringVar(&f.peak, "peak", "both", "Max channel peak sign: both, neg or pos")
	fl.Float64Var(&f.msBefore, "ms-before", def.MsBefore, "Waveform window before each spike (ms)")
	fl.Float64Var(&f.msAfter, "ms-after", def.MsAfter, "Waveform window after each spike (ms)")
	fl.IntVar(&f.maxSpikes, "max-spikes", def.MaxSpikes, "Spikes per unit used for templates (0 for all)")
	fl.Int64Var(&f.seed, "seed", 0, "Seed for spike subsampling")
	fl.Float64Var(&f.threshold, "threshold", math.NaN(), "Curate units against this SNR")
	fl.StringVar(&f.thresholdSign, "threshold-sign", "less", "Units removed by curation: less, less_or_equal, greater, greater_or_equal")
	_ = cmd.MarkFlagRequired("spikes")
	return cmd
}

func (f snrFlags) snrConfig(a *app) (quality.SNRConfig, error) {
	cfg := quality.DefaultSNRConfig()

	noise, err := a.cfg.NoiseLevels()
	if err != nil {
		return cfg, err
	}
	cfg.Noise = noise

	if cfg.Template.Mode, err = quality.ParseTemplateMode(f.templateMode); err != nil {
		return cfg, err
	}
	if cfg.Peak, err = quality.ParsePeakSign(f.peak); err != nil {
		return cfg, err
	}
	cfg.Template.MsBefore = f.msBefore
	cfg.Template.MsAfter = f.msAfter
	cfg.Template.MaxSpikes = f.maxSpikes
	cfg.Template.Seed = f.seed
	return cfg, nil
}
