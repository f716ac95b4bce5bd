// Package config defines the settings of a pitch run and loads them from
// YAML.
package config

import (
	"log/slog"
	"runtime"

	"github.com/cwbudde/algo-pitch/dsp/frame"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel maps l to a [slog.Level]. Unknown levels map to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the full set of run settings.
type Config struct {
	// WindowLength is the frame length in milliseconds.
	WindowLength float64 `yaml:"window_length"`
	// FrameShift is the hop between frame starts in milliseconds.
	FrameShift float64 `yaml:"frame_shift"`
	// Padding extends the frame grid past both ends of a recording, in
	// milliseconds.
	Padding float64 `yaml:"padding"`

	DataDir       string `yaml:"data_dir"`
	Method        string `yaml:"method"`
	VoicingPolicy string `yaml:"voicing_policy"`

	// Workers bounds the number of recordings analysed concurrently.
	// Zero selects GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Seed is the base seed for cepstrum dither. Recording i uses Seed+i.
	Seed uint64 `yaml:"seed"`

	LogLevel LogLevel `yaml:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	seg := frame.DefaultConfig()
	return Config{
		WindowLength:  seg.WindowLength,
		FrameShift:    seg.FrameShift,
		Padding:       seg.Padding,
		DataDir:       "data",
		Method:        "amdf",
		VoicingPolicy: "correlation",
		LogLevel:      LogInfo,
	}
}

// Segmentation returns the frame grid settings.
func (c Config) Segmentation() frame.Config {
	return frame.Config{
		WindowLength: c.WindowLength,
		FrameShift:   c.FrameShift,
		Padding:      c.Padding,
	}
}

// WorkerLimit returns Workers, or GOMAXPROCS when Workers is 0.
func (c Config) WorkerLimit() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
