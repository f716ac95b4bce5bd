package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

// Generator creates deterministic test and calibration signals from a
// shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Samples converts a duration in seconds to a sample count at the
// generator's rate.
func (g *Generator) Samples(seconds float64) int {
	return int(math.Round(seconds * g.cfg.SampleRate))
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz < 0 || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in [0, %v): %f", g.cfg.SampleRate/2, freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Harmonic generates a voiced-like tone: the fundamental plus nHarmonics
// overtones with 1/k amplitude, dropping partials at or above Nyquist.
func (g *Generator) Harmonic(f0, amplitude float64, nHarmonics, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("harmonic samples must be > 0: %d", samples)
	}
	if f0 <= 0 || f0 >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("harmonic f0 must be in (0, %v): %f", g.cfg.SampleRate/2, f0)
	}
	if nHarmonics < 0 {
		return nil, fmt.Errorf("harmonic count must be >= 0: %d", nHarmonics)
	}
	out := make([]float64, samples)
	for k := 1; k <= nHarmonics+1; k++ {
		freq := float64(k) * f0
		if freq >= g.cfg.SampleRate/2 {
			break
		}
		step := 2 * math.Pi * freq / g.cfg.SampleRate
		gain := amplitude / float64(k)
		for i := range out {
			out[i] += gain * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Silence generates samples zeros.
func (g *Generator) Silence(samples int) ([]float64, error) {
	if samples < 0 {
		return nil, fmt.Errorf("silence samples must be >= 0: %d", samples)
	}
	return make([]float64, samples), nil
}

// Concat joins signals end to end.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ToPCM rounds data in [-1, 1] to signed integers of the given bit depth,
// clipping out-of-range values.
func ToPCM(data []float64, bitDepth int) ([]int, error) {
	if bitDepth < 2 || bitDepth > 32 {
		return nil, fmt.Errorf("bit depth must be in [2, 32]: %d", bitDepth)
	}
	fullScale := math.Exp2(float64(bitDepth-1)) - 1
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * fullScale))
	}
	return out, nil
}
