package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	if cfg.WindowLength != 32 || cfg.FrameShift != 15 || cfg.Padding != 16 {
		t.Fatalf("unexpected segmentation defaults: %+v", cfg)
	}
	if cfg.DataDir != "data" || cfg.Method != "amdf" || cfg.VoicingPolicy != "correlation" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
window_length: 25
frame_shift: 10
method: cepstrum
seed: 7
workers: 2
log_level: debug
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.WindowLength != 25 || cfg.FrameShift != 10 || cfg.Padding != 16 {
		t.Fatalf("segmentation = %+v", cfg.Segmentation())
	}
	if cfg.Method != "cepstrum" || cfg.Seed != 7 || cfg.Workers != 2 || cfg.LogLevel != LogDebug {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("DataDir = %q, want default", cfg.DataDir)
	}
}

func TestLoadFromReaderEmpty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader(empty): %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("empty file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("windowlength: 20\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.WindowLength = 0
	cfg.FrameShift = -1
	cfg.Padding = -2
	cfg.Method = "yin"
	cfg.VoicingPolicy = "combined"
	cfg.Workers = -1
	cfg.LogLevel = "trace"

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, key := range []string{"window_length", "frame_shift", "padding", "method", "voicing_policy", "workers", "log_level"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitch.yaml")
	if err := os.WriteFile(path, []byte("method: mdf\nvoicing_policy: energy\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "mdf" || cfg.VoicingPolicy != "energy" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWorkerLimit(t *testing.T) {
	cfg := Default()
	if cfg.WorkerLimit() < 1 {
		t.Fatalf("WorkerLimit() = %d", cfg.WorkerLimit())
	}
	cfg.Workers = 3
	if cfg.WorkerLimit() != 3 {
		t.Fatalf("WorkerLimit() = %d, want 3", cfg.WorkerLimit())
	}
}

type resolverCLI struct {
	Config       kong.ConfigFlag `help:"Configuration file."`
	WindowLength float64         `short:"w" default:"32"`
	FrameShift   float64         `short:"f" default:"15"`
	Method       string          `short:"m" default:"amdf"`
}

func TestYAMLResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitch.yaml")
	if err := os.WriteFile(path, []byte("window_length: 20\nmethod: cepstrum\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI
	parser, err := kong.New(&cli, kong.Configuration(YAMLResolver))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--config", path, "-m", "autocorrelation"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cli.WindowLength != 20 {
		t.Fatalf("WindowLength = %v, want 20 from file", cli.WindowLength)
	}
	if cli.FrameShift != 15 {
		t.Fatalf("FrameShift = %v, want default 15", cli.FrameShift)
	}
	if cli.Method != "autocorrelation" {
		t.Fatalf("Method = %q, want flag value", cli.Method)
	}
}

func TestYAMLResolverRejectsInvalidFile(t *testing.T) {
	if _, err := YAMLResolver(strings.NewReader("method: yin\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSlogLevel(t *testing.T) {
	if LogDebug.SlogLevel().String() != "DEBUG" || LogLevel("").SlogLevel().String() != "INFO" {
		t.Fatal("unexpected slog mapping")
	}
}
