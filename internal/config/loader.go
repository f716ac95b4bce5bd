package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/voicing"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of [Default] and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of [Default] and validates the
// result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that cfg describes a runnable configuration. It returns a
// joined error listing every failure.
func Validate(cfg *Config) error {
	var errs []error

	if !(cfg.WindowLength > 0) {
		errs = append(errs, fmt.Errorf("window_length %v must be > 0 ms", cfg.WindowLength))
	}
	if !(cfg.FrameShift > 0) {
		errs = append(errs, fmt.Errorf("frame_shift %v must be > 0 ms", cfg.FrameShift))
	}
	if !(cfg.Padding >= 0) {
		errs = append(errs, fmt.Errorf("padding %v must be >= 0 ms", cfg.Padding))
	}
	if _, err := pitch.ParseMethod(cfg.Method); err != nil {
		errs = append(errs, fmt.Errorf("method: %w; valid values: autocorrelation, amdf, mdf, cepstrum", err))
	}
	if _, err := voicing.ParsePolicy(cfg.VoicingPolicy); err != nil {
		errs = append(errs, fmt.Errorf("voicing_policy: %w; valid values: correlation, energy", err))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must be >= 0", cfg.Workers))
	}
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	return errors.Join(errs...)
}

// YAMLResolver is a [kong.ConfigurationLoader]. The file is validated like
// [LoadFromReader]; keys present in it become flag defaults, matched by
// flag name with '-' read as '_'. Flags given on the command line still win.
func YAMLResolver(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if _, err := LoadFromReader(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]
		if !ok || v == nil {
			return nil, nil
		}
		return fmt.Sprint(v), nil
	}), nil
}
