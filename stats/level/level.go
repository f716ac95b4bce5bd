// Package level summarizes the amplitude of a whole recording: offset,
// loudness, peak and clipping.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds recording-level amplitude statistics. Levels in dBFS are
// relative to the full scale passed to [Measure].
type Summary struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	Peak        float64 // max(|max|, |min|)
	CrestFactor float64 // peak / RMS, 0 for silence
	// Clipped counts samples at or beyond full scale.
	Clipped int

	DCdBFS   float64
	RMSdBFS  float64
	PeakdBFS float64
}

// FullScale returns the largest magnitude of a signed PCM sample:
// 2^(bitDepth-1). Non-positive depths yield 0.
func FullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		return 0
	}
	return math.Exp2(float64(bitDepth - 1))
}

// Measure computes the summary of x. With fullScale <= 0 the dBFS fields
// are NaN and Clipped stays 0.
func Measure(x []float64, fullScale float64) Summary {
	s := Summary{
		Length:   len(x),
		DCdBFS:   math.Inf(-1),
		RMSdBFS:  math.Inf(-1),
		PeakdBFS: math.Inf(-1),
	}
	if len(x) == 0 {
		return s
	}

	s.DC = stat.Mean(x, nil)
	s.RMS = math.Sqrt(floats.Dot(x, x) / float64(len(x)))
	s.Peak = math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
	}

	if !(fullScale > 0) {
		s.DCdBFS, s.RMSdBFS, s.PeakdBFS = math.NaN(), math.NaN(), math.NaN()
		return s
	}

	// Positive full scale of integer PCM is one step below fullScale.
	limit := fullScale - 1
	for _, v := range x {
		if v >= limit || v <= -fullScale {
			s.Clipped++
		}
	}

	s.DCdBFS = ampTodB(s.DC / fullScale)
	s.RMSdBFS = ampTodB(s.RMS / fullScale)
	s.PeakdBFS = ampTodB(s.Peak / fullScale)

	return s
}

// ampTodB converts an amplitude to decibels: 20 * log10(|value|). Zero
// yields -Inf.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}
