package pitch

import (
	"errors"

	"github.com/cwbudde/algo-pitch/dsp/conv"
	"github.com/cwbudde/algo-pitch/dsp/features"
	"github.com/cwbudde/algo-pitch/dsp/frame"
)

// Result is the detailed outcome of an autocorrelation analysis.
type Result struct {
	// F0 is the accepted estimate, or 0.
	F0 float64
	// RMax is the normalized correlation at PeakLag. It is 0 when no peak
	// was located.
	RMax float64
	// PeakLag is the candidate period in samples, or 0.
	PeakLag int
}

// Autocorrelation estimates f0 from the first correlation peak following
// the initial decay of the frame's auto-correlation.
type Autocorrelation struct{}

// NewAutocorrelation returns the autocorrelation estimator.
func NewAutocorrelation() *Autocorrelation { return &Autocorrelation{} }

// Method implements [Estimator].
func (*Autocorrelation) Method() Method { return MethodAutocorrelation }

// Validate implements [Estimator].
func (*Autocorrelation) Validate(sampleRate float64) error {
	return validateSampleRate(sampleRate)
}

// Estimate implements [Estimator].
func (a *Autocorrelation) Estimate(x []float64, sampleRate float64) (float64, error) {
	r, err := a.Analyze(x, sampleRate)
	return r.F0, err
}

// Analyze returns the estimate together with the correlation evidence. A
// non-zero F0 always comes with RMax above 0.5 and F0 inside (50, 400) Hz.
func (a *Autocorrelation) Analyze(x []float64, sampleRate float64) (Result, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return Result{}, err
	}

	normalized, err := frame.Preprocess(x)
	if errors.Is(err, frame.ErrDegenerate) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}

	corr, err := conv.AutoCorrelateOneSided(normalized)
	if err != nil {
		return Result{}, err
	}

	p := features.PeriodicityFromCorrelation(corr)
	if !p.Conclusive || p.PeakLag == 0 {
		return Result{}, nil
	}

	r := Result{RMax: p.RMax, PeakLag: p.PeakLag}
	f0 := sampleRate / float64(p.PeakLag)
	if p.RMax > AutocorrMinPeak && f0 > AutocorrMinF0 && f0 < AutocorrMaxF0 {
		r.F0 = f0
	}

	return r, nil
}
