package pitch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/conv"
	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/dither"
	"github.com/cwbudde/algo-pitch/dsp/frame"
	"github.com/cwbudde/algo-pitch/dsp/spectrum"
	"github.com/cwbudde/algo-pitch/dsp/voicing"
	"github.com/cwbudde/algo-pitch/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// CepstrumDither is the amplitude of the uniform noise added to the
// normalized frame before the log spectrum.
const CepstrumDither = 0.025

// Cepstrum estimates f0 from the strongest peak of the real cepstrum.
//
// The frame is scaled by its signed maximum, not its peak magnitude, so a
// frame dominated by negative excursions comes out inverted and larger than
// unit scale. A frame whose maximum is exactly 0 yields 0.
type Cepstrum struct {
	classifier *voicing.Classifier
	noise      *dither.Source
	buf        []float64
}

func newCepstrum(classifier *voicing.Classifier, cfg config) (*Cepstrum, error) {
	opts := []dither.Option{
		dither.WithDitherType(dither.DitherRectangular),
		dither.WithDitherAmplitude(CepstrumDither),
	}
	if cfg.rng != nil {
		opts = append(opts, dither.WithRNG(cfg.rng))
	} else {
		opts = append(opts, dither.WithSeed(cfg.seed))
	}

	noise, err := dither.NewSource(opts...)
	if err != nil {
		return nil, fmt.Errorf("pitch: cepstrum dither: %w", err)
	}

	return &Cepstrum{classifier: classifier, noise: noise}, nil
}

// Method implements [Estimator].
func (*Cepstrum) Method() Method { return MethodCepstrum }

// Validate implements [Estimator].
func (*Cepstrum) Validate(sampleRate float64) error {
	return validateSampleRate(sampleRate)
}

// Estimate implements [Estimator]. It advances the dither generator, so
// repeated calls on the same frame may differ slightly. A Cepstrum is not
// safe for concurrent use.
func (c *Cepstrum) Estimate(x []float64, sampleRate float64) (float64, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return 0, err
	}

	normalized, err := frame.Preprocess(x)
	if errors.Is(err, frame.ErrDegenerate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	set, err := frameFeatures(c.classifier, x, normalized)
	if err != nil {
		return 0, err
	}
	if c.classifier != nil && c.classifier.Classify(set) == voicing.Unvoiced {
		return 0, nil
	}

	peakValue := floats.Max(x)
	if peakValue == 0 {
		return 0, nil
	}

	n := len(x)
	c.buf = core.EnsureLen(c.buf, n)
	buf := c.buf
	floats.ScaleTo(buf, 1/peakValue, x)
	c.noise.AddNoise(buf)
	window.Apply(window.TypeHamming, buf)

	ceps, err := spectrum.RealCepstrum(buf)
	if err != nil {
		return 0, err
	}

	start := n / 12
	end := min(n/2, len(ceps))
	if start >= end {
		return 0, nil
	}

	idx, _ := conv.FindPeakFrom(ceps[:end], start)
	if idx <= 0 {
		return 0, nil
	}

	f0 := sampleRate / float64(idx)
	if f0 > CepstrumMinF0 && f0 < CepstrumMaxF0 {
		return f0, nil
	}

	return 0, nil
}
