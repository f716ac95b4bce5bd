// Package features computes the per-frame measurements behind the voicing
// decision: zero-crossing rate, log-energy and two normalized
// auto-correlation coefficients.
package features

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/conv"
	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/frame"
	"gonum.org/v1/gonum/floats"
)

// Set holds the features of one frame.
type Set struct {
	ZeroCrossingRate float64
	LogEnergy        float64
	R1               float64
	RMax             float64
}

// Periodicity summarizes the auto-correlation of a normalized frame.
type Periodicity struct {
	// R1 is the lag-1 correlation relative to lag 0.
	R1 float64
	// RMax is the correlation at PeakLag relative to lag 0.
	RMax float64
	// PeakLag is the lag of the strongest correlation after the initial
	// decay, in samples. Zero when Conclusive is false.
	PeakLag int
	// Conclusive is false when the correlation never rises again, in which
	// case R1 is 0 and RMax is 1.
	Conclusive bool
}

var inconclusive = Periodicity{R1: 0, RMax: 1}

// ZeroCrossingRate returns the fraction of adjacent sample pairs whose signs
// differ. A flip between positive and negative counts 1, a step to or from an
// exact zero counts 1/2. Frames shorter than 2 samples return 0.
func ZeroCrossingRate(x []float64) float64 {
	if len(x) < frame.MinLength {
		return 0
	}

	var changes float64
	prev := core.Sign(x[0])
	for _, v := range x[1:] {
		s := core.Sign(v)
		changes += math.Abs(s - prev)
		prev = s
	}

	return changes / 2 / float64(len(x)-1)
}

// LogEnergy returns log10 of the mean squared amplitude. All-zero input
// yields -Inf; empty input yields NaN.
func LogEnergy(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}

	return math.Log10(floats.Dot(x, x) / float64(len(x)))
}

// PeriodicityOf locates the first local minimum of the auto-correlation of
// normalized and the maximum beyond it.
func PeriodicityOf(normalized []float64) (Periodicity, error) {
	corr, err := conv.AutoCorrelateOneSided(normalized)
	if err != nil {
		return Periodicity{}, err
	}

	return PeriodicityFromCorrelation(corr), nil
}

// PeriodicityFromCorrelation evaluates a one-sided auto-correlation whose
// index 0 holds lag 0.
func PeriodicityFromCorrelation(corr []float64) Periodicity {
	if len(corr) < frame.MinLength || corr[0] <= 0 {
		return inconclusive
	}

	rmin := conv.FirstRise(corr)
	if rmin < 0 {
		return inconclusive
	}

	peak, value := conv.FindPeakFrom(corr, rmin)

	return Periodicity{
		R1:         corr[1] / corr[0],
		RMax:       value / corr[0],
		PeakLag:    peak,
		Conclusive: true,
	}
}

// Extract computes all features of a raw frame. Silent or too-short frames
// return an error wrapping [frame.ErrDegenerate].
func Extract(raw []float64) (Set, error) {
	normalized, err := frame.Preprocess(raw)
	if err != nil {
		return Set{}, err
	}

	return Compute(raw, normalized)
}

// Compute derives features from a raw frame and its preprocessed form.
// Zero-crossing rate and correlation coefficients use the preprocessed
// samples; log-energy uses the raw ones so energy floors stay in source
// amplitude units.
func Compute(raw, normalized []float64) (Set, error) {
	p, err := PeriodicityOf(normalized)
	if err != nil {
		return Set{}, err
	}

	return Set{
		ZeroCrossingRate: ZeroCrossingRate(normalized),
		LogEnergy:        LogEnergy(raw),
		R1:               p.R1,
		RMax:             p.RMax,
	}, nil
}
