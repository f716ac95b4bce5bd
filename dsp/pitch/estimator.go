package pitch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-pitch/dsp/features"
	"github.com/cwbudde/algo-pitch/dsp/voicing"
)

// Acceptance limits. F0 bounds are exclusive and in Hz.
const (
	AutocorrMinF0   = 50.0
	AutocorrMaxF0   = 400.0
	AutocorrMinPeak = 0.5

	AMDFMinF0 = 100.0
	AMDFMaxF0 = 350.0

	CepstrumMinF0 = 100.0
	CepstrumMaxF0 = 400.0
)

// Estimator maps one frame to an f0 in Hz, or 0 when no reliable pitch is
// found.
type Estimator interface {
	// Method reports the algorithm.
	Method() Method
	// Validate checks that sampleRate is usable before any frame is
	// processed.
	Validate(sampleRate float64) error
	// Estimate analyses a raw frame. Degenerate frames yield 0, not an
	// error; errors are reserved for configuration problems.
	Estimate(frame []float64, sampleRate float64) (float64, error)
}

// Option configures estimator construction.
type Option func(*config) error

type config struct {
	policy     voicing.Policy
	classifier *voicing.Classifier
	seed       uint64
	rng        *rand.Rand
}

func defaultConfig() config {
	return config{policy: voicing.PolicyCorrelation}
}

// WithPolicy selects the voicing policy used by AMDF and cepstrum.
func WithPolicy(p voicing.Policy) Option {
	return func(cfg *config) error {
		if !p.Valid() {
			return fmt.Errorf("%w: %s", voicing.ErrUnknownPolicy, p)
		}
		cfg.policy = p
		return nil
	}
}

// WithClassifier supplies a prebuilt classifier. It takes precedence over
// [WithPolicy].
func WithClassifier(c *voicing.Classifier) Option {
	return func(cfg *config) error {
		if c == nil {
			return fmt.Errorf("pitch: nil classifier")
		}
		cfg.classifier = c
		return nil
	}
}

// WithSeed seeds the cepstrum dither source.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithRNG hands the cepstrum estimator its dither generator. It takes
// precedence over [WithSeed].
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		if rng == nil {
			return fmt.Errorf("pitch: nil random source")
		}
		cfg.rng = rng
		return nil
	}
}

// New builds an estimator for m.
//
// Autocorrelation and AMDF estimators are safe for concurrent use. A
// cepstrum estimator owns its dither generator and must not be shared
// between goroutines.
func New(m Method, opts ...Option) (Estimator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	classifier := cfg.classifier
	if classifier == nil && m != MethodAutocorrelation {
		c, err := voicing.NewClassifier(cfg.policy)
		if err != nil {
			return nil, err
		}
		classifier = c
	}

	switch m {
	case MethodAutocorrelation:
		return NewAutocorrelation(), nil
	case MethodAMDF:
		return NewAMDF(classifier), nil
	case MethodCepstrum:
		return newCepstrum(classifier, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m)
	}
}

func validateSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	return nil
}

// frameFeatures computes the features classifier needs. The energy policy
// counts zero crossings on the raw frame, so a DC offset suppresses them.
func frameFeatures(classifier *voicing.Classifier, raw, normalized []float64) (features.Set, error) {
	set, err := features.Compute(raw, normalized)
	if err != nil {
		return features.Set{}, err
	}
	if classifier != nil && classifier.Policy() == voicing.PolicyEnergy {
		set.ZeroCrossingRate = features.ZeroCrossingRate(raw)
	}
	return set, nil
}
