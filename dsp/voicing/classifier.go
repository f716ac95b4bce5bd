// Package voicing decides whether a frame carries a periodic (voiced) signal
// from its extracted features.
package voicing

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitch/dsp/features"
)

// Default thresholds.
const (
	DefaultMinRMax          = 0.5
	DefaultMaxZCR           = 0.3
	DefaultMinR1            = 0.5
	DefaultEnergyMaxZCR     = 0.1
	DefaultMinLogEnergyBase = 500.0
)

// Thresholds bound the features of a voiced frame.
type Thresholds struct {
	// Correlation policy.
	MinRMax float64
	MaxZCR  float64
	MinR1   float64

	// Energy policy.
	EnergyMaxZCR float64
	MinLogEnergy float64
}

// DefaultThresholds returns the thresholds both policies use unless
// overridden.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRMax:      DefaultMinRMax,
		MaxZCR:       DefaultMaxZCR,
		MinR1:        DefaultMinR1,
		EnergyMaxZCR: DefaultEnergyMaxZCR,
		MinLogEnergy: math.Log10(DefaultMinLogEnergyBase),
	}
}

// Option configures a Classifier.
type Option func(*Thresholds)

// WithThresholds replaces all thresholds.
func WithThresholds(t Thresholds) Option {
	return func(dst *Thresholds) { *dst = t }
}

// WithMaxZCR overrides the zero-crossing limit of the correlation policy.
func WithMaxZCR(v float64) Option {
	return func(t *Thresholds) { t.MaxZCR = v }
}

// WithMinRMax overrides the minimum normalized correlation peak.
func WithMinRMax(v float64) Option {
	return func(t *Thresholds) { t.MinRMax = v }
}

// WithMinR1 overrides the minimum lag-1 correlation.
func WithMinR1(v float64) Option {
	return func(t *Thresholds) { t.MinR1 = v }
}

// Classifier applies one policy with fixed thresholds. It is immutable and
// safe for concurrent use.
type Classifier struct {
	policy     Policy
	thresholds Thresholds
}

// NewClassifier returns a classifier for policy.
func NewClassifier(policy Policy, opts ...Option) (*Classifier, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}

	t := DefaultThresholds()
	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}

	return &Classifier{policy: policy, thresholds: t}, nil
}

// Policy returns the active policy.
func (c *Classifier) Policy() Policy { return c.policy }

// Thresholds returns the active thresholds.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// Classify returns the decision for one frame. NaN features never yield
// Voiced.
func (c *Classifier) Classify(s features.Set) Decision {
	t := c.thresholds

	switch c.policy {
	case PolicyEnergy:
		if !(s.ZeroCrossingRate <= t.EnergyMaxZCR) || !(s.LogEnergy >= t.MinLogEnergy) {
			return Unvoiced
		}
	default:
		if !(s.RMax >= t.MinRMax) || !(s.ZeroCrossingRate <= t.MaxZCR) || !(s.R1 >= t.MinR1) {
			return Unvoiced
		}
	}

	return Voiced
}
