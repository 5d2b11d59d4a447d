package main

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/internal/config"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	overrides  recordingFlags

	cfg     config.Config
	logger  log.Logger
	reg     *prometheus.Registry
	metrics *preprocess.Metrics
}

// recordingFlags override the recording and engine sections of the config.
type recordingFlags struct {
	channels  int
	fs        float64
	dtype     string
	filter    string
	chunkSize int
	noCache   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "spikefilter",
		Short:         "Chunked filtering and quality metrics for raw extracellular recordings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	pf.StringVar(&a.logLevel, "log-level", "", "Override log.level: debug, info, warn, error")
	pf.IntVar(&a.overrides.channels, "channels", 0, "Override recording.channels")
	pf.Float64Var(&a.overrides.fs, "sampling-frequency", 0, "Override recording.sampling_frequency (Hz)")
	pf.StringVar(&a.overrides.dtype, "dtype", "", "Override recording.dtype: int16, float32, float64")
	pf.StringVar(&a.overrides.filter, "filter", "", "Override filter.kind: bandpass, butterworth, notch, none")
	pf.IntVar(&a.overrides.chunkSize, "chunk-size", 0, "Override engine.chunk_size (0 keeps the config value)")
	pf.BoolVar(&a.overrides.noCache, "no-cache", false, "Disable the chunk cache")

	root.AddCommand(
		newInfoCmd(a),
		newFilterCmd(a),
		newNoiseCmd(a),
		newStatsCmd(a),
		newSNRCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}

	o := a.overrides
	if o.channels > 0 {
		cfg.Recording.Channels = o.channels
	}
	if o.fs > 0 {
		cfg.Recording.SamplingFrequency = o.fs
	}
	if o.dtype != "" {
		cfg.Recording.DataType = o.dtype
	}
	if o.filter != "" {
		cfg.Filter.Kind = o.filter
	}
	if o.chunkSize > 0 {
		cfg.Engine.ChunkSize = o.chunkSize
	}
	if o.noCache {
		cfg.Engine.Cache = false
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log.With(logger, "cmd", cmd.Name())
	a.reg = prometheus.NewRegistry()
	a.metrics = preprocess.NewMetrics(a.reg)
	return nil
}

func (a *app) openRecording(path string) (*recording.RawFile, error) {
	rawCfg, err := a.cfg.RawFile()
	if err != nil {
		return nil, err
	}
	rf, err := recording.OpenRawFile(path, rawCfg)
	if err != nil {
		return nil, err
	}
	level.Debug(a.logger).Log("msg", "opened recording", "path", path, "channels", rawCfg.NumChannels, "frames", rf.NumFrames())
	return rf, nil
}

func (a *app) filtered(src recording.Source) (*preprocess.FilterRecording, error) {
	return a.cfg.NewFilterRecording(src, preprocess.WithLogger(a.logger), preprocess.WithMetrics(a.metrics))
}

// logMetrics writes the current value of every registered counter and gauge.
func (a *app) logMetrics() {
	families, err := a.reg.Gather()
	if err != nil {
		level.Warn(a.logger).Log("msg", "failed to gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			level.Info(a.logger).Log("metric", mf.GetName(), "value", v)
		}
	}
}

func closeQuietly(c interface{ Close() error }, logger log.Logger) {
	if err := c.Close(); err != nil {
		level.Warn(logger).Log("msg", "close failed", "err", err)
	}
}
