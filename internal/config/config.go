// Package config loads the YAML configuration of the spikefilter command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-spike/dsp/preprocess"
	"github.com/cwbudde/algo-spike/dsp/preprocess/chunkcache"
	"github.com/cwbudde/algo-spike/dsp/recording"
	"github.com/cwbudde/algo-spike/quality"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Filter kinds.
const (
	FilterBandpass    = "bandpass"
	FilterButterworth = "butterworth"
	FilterNotch       = "notch"
	FilterNone        = "none"
)

// Config is the full command configuration.
type Config struct {
	Recording RecordingConfig `yaml:"recording"`
	Filter    FilterConfig    `yaml:"filter"`
	Engine    EngineConfig    `yaml:"engine"`
	Noise     NoiseConfig     `yaml:"noise"`
	Log       LogConfig       `yaml:"log"`
}

// RecordingConfig describes a raw binary recording.
type RecordingConfig struct {
	Channels          int     `yaml:"channels"`
	SamplingFrequency float64 `yaml:"sampling_frequency"`
	DataType          string  `yaml:"dtype"`
	HeaderBytes       int64   `yaml:"header_bytes"`
	ChannelIDs        []int   `yaml:"channel_ids,omitempty"`
}

// FilterConfig selects and parameterizes the filter.
type FilterConfig struct {
	Kind      string  `yaml:"kind"`
	FreqMin   float64 `yaml:"freq_min"`
	FreqMax   float64 `yaml:"freq_max"`
	FreqWidth float64 `yaml:"freq_width"`
	Order     int     `yaml:"order"`
	NotchFreq float64 `yaml:"notch_freq"`
	NotchQ    float64 `yaml:"notch_q"`
	Margin    int     `yaml:"margin"`
}

// EngineConfig controls chunking and caching. ChunkSize 0 disables
// chunking.
type EngineConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	Cache        bool `yaml:"cache"`
	CacheMaxSize int  `yaml:"cache_max_size"`
}

// NoiseConfig controls noise level estimation.
type NoiseConfig struct {
	Mode     string  `yaml:"mode"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
}

// LogConfig controls the command logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given: a 300-6000
// Hz bandpass over int16 data at 30 kHz, cached 30000-frame chunks.
func Default() Config {
	bp := preprocess.DefaultBandpassConfig()
	bw := preprocess.DefaultButterworthConfig()
	notch := preprocess.DefaultNotchConfig()
	noise := quality.DefaultNoiseConfig()

	return Config{
		Recording: RecordingConfig{
			Channels:          1,
			SamplingFrequency: 30000,
			DataType:          recording.Int16.String(),
		},
		Filter: FilterConfig{
			Kind:      FilterBandpass,
			FreqMin:   bp.FreqMin,
			FreqMax:   bp.FreqMax,
			FreqWidth: bp.FreqWidth,
			Order:     bw.Order,
			NotchFreq: notch.Freq,
			NotchQ:    notch.Q,
			Margin:    bp.Margin,
		},
		Engine: EngineConfig{
			ChunkSize:    preprocess.DefaultBandpassChunkSize,
			Cache:        true,
			CacheMaxSize: chunkcache.DefaultMaxSize,
		},
		Noise: NoiseConfig{
			Mode:     noise.Mode.String(),
			Duration: noise.Duration,
			Seed:     noise.Seed,
		},
		Log: LogConfig{Level: "info", Format: "logfmt"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges and enumerations. Filter parameters are
// checked against the sampling frequency when the filter is built.
func (c Config) Validate() error {
	r := c.Recording
	switch {
	case r.Channels <= 0:
		return fmt.Errorf("%w: recording.channels must be positive", ErrInvalid)
	case r.SamplingFrequency <= 0:
		return fmt.Errorf("%w: recording.sampling_frequency must be positive", ErrInvalid)
	case r.HeaderBytes < 0:
		return fmt.Errorf("%w: recording.header_bytes must not be negative", ErrInvalid)
	case r.ChannelIDs != nil && len(r.ChannelIDs) != r.Channels:
		return fmt.Errorf("%w: %d channel_ids for %d channels", ErrInvalid, len(r.ChannelIDs), r.Channels)
	}
	if _, err := recording.ParseDataType(r.DataType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	switch c.Filter.Kind {
	case FilterBandpass, FilterButterworth, FilterNotch, FilterNone:
	default:
		return fmt.Errorf("%w: unknown filter kind %q", ErrInvalid, c.Filter.Kind)
	}
	if c.Engine.ChunkSize < 0 {
		return fmt.Errorf("%w: engine.chunk_size must not be negative", ErrInvalid)
	}
	if c.Engine.CacheMaxSize < 0 {
		return fmt.Errorf("%w: engine.cache_max_size must not be negative", ErrInvalid)
	}

	if _, err := quality.ParseNoiseMode(c.Noise.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Noise.Duration <= 0 {
		return fmt.Errorf("%w: noise.duration must be positive", ErrInvalid)
	}

	if _, err := levelOption(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "logfmt" && c.Log.Format != "json" {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// RawFile returns the raw file layout of the recording section.
func (c Config) RawFile() (recording.RawFileConfig, error) {
	dt, err := recording.ParseDataType(c.Recording.DataType)
	if err != nil {
		return recording.RawFileConfig{}, err
	}
	return recording.RawFileConfig{
		NumChannels:       c.Recording.Channels,
		SamplingFrequency: c.Recording.SamplingFrequency,
		DataType:          dt,
		HeaderBytes:       c.Recording.HeaderBytes,
		ChannelIDs:        c.Recording.ChannelIDs,
	}, nil
}

// NoiseLevels returns the noise section as quality options.
func (c Config) NoiseLevels() (quality.NoiseConfig, error) {
	mode, err := quality.ParseNoiseMode(c.Noise.Mode)
	if err != nil {
		return quality.NoiseConfig{}, err
	}
	return quality.NoiseConfig{Mode: mode, Duration: c.Noise.Duration, Seed: c.Noise.Seed}, nil
}

// EngineOptions returns the engine section as preprocess options.
func (c Config) EngineOptions() []preprocess.Option {
	opts := []preprocess.Option{preprocess.WithChunkSize(c.Engine.ChunkSize)}
	if c.Engine.Cache {
		opts = append(opts, preprocess.WithCacheMaxSize(c.Engine.CacheMaxSize))
	}
	return opts
}

// NewFilterRecording wraps src with the configured filter. extra options
// are applied after the engine section.
func (c Config) NewFilterRecording(src recording.Source, extra ...preprocess.Option) (*preprocess.FilterRecording, error) {
	opts := append(c.EngineOptions(), extra...)
	f := c.Filter

	switch f.Kind {
	case FilterBandpass:
		return preprocess.NewBandpass(src, preprocess.BandpassConfig{
			FreqMin:   f.FreqMin,
			FreqMax:   f.FreqMax,
			FreqWidth: f.FreqWidth,
			Margin:    f.Margin,
		}, opts...)
	case FilterButterworth:
		return preprocess.NewButterworth(src, preprocess.ButterworthConfig{
			FreqMin: f.FreqMin,
			FreqMax: f.FreqMax,
			Order:   f.Order,
			Margin:  f.Margin,
		}, opts...)
	case FilterNotch:
		return preprocess.NewNotch(src, preprocess.NotchConfig{
			Freq:   f.NotchFreq,
			Q:      f.NotchQ,
			Margin: f.Margin,
		}, opts...)
	case FilterNone:
		return preprocess.NewIdentity(src, opts...)
	}
	return nil, fmt.Errorf("%w: unknown filter kind %q", ErrInvalid, f.Kind)
}

// Logger builds the command logger on w.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	allow, err := levelOption(c.Log.Level)
	if err != nil {
		return nil, err
	}

	var logger log.Logger
	if c.Log.Format == "json" {
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	} else {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, allow), nil
}

func levelOption(s string) (level.Option, error) {
	switch s {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, fmt.Errorf("%w: unknown log level %q", ErrInvalid, s)
}
