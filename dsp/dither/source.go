package dither

import "math/rand/v2"

// Source produces additive dither noise from a locally owned random
// generator. A Source is not safe for concurrent use; give each goroutine
// its own, seeded deterministically when output must be reproducible.
type Source struct {
	ditherType      DitherType
	ditherAmplitude float64
	rng             *rand.Rand
}

// NewSource creates a noise source. Without [WithRNG] or [WithSeed] the
// generator is seeded with seed 0, never from process-wide state.
func NewSource(opts ...Option) (*Source, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.rng == nil {
		if err := WithSeed(0)(&cfg); err != nil {
			return nil, err
		}
	}

	return &Source{
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		rng:             cfg.rng,
	}, nil
}

// Sample returns one noise value.
func (s *Source) Sample() float64 {
	switch s.ditherType {
	case DitherRectangular:
		return s.ditherAmplitude * (s.rng.Float64()*2 - 1)
	default:
		return 0
	}
}

// AddNoise adds one noise value to each sample of buf in-place.
func (s *Source) AddNoise(buf []float64) {
	if s.ditherType == DitherNone {
		return
	}
	for i := range buf {
		buf[i] += s.Sample()
	}
}

// DitherType returns the configured noise PDF.
func (s *Source) DitherType() DitherType { return s.ditherType }

// DitherAmplitude returns the configured peak amplitude.
func (s *Source) DitherAmplitude() float64 { return s.ditherAmplitude }
