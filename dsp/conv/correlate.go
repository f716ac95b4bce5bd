package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFTThreshold is the signal length from which [AutoCorrelate] switches
// from direct summation to FFT-based correlation.
const FFTThreshold = 1024

// Correlate computes the full cross-correlation of a and b.
// The result has length len(a) + len(b) - 1.
// Output index k corresponds to lag k - (len(b) - 1).
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	bReversed := make([]float64, len(b))
	for i := range b {
		bReversed[i] = b[len(b)-1-i]
	}

	return Direct(a, bReversed)
}

// AutoCorrelate computes the full, non-circular auto-correlation of a.
// The result has length 2*len(a) - 1 and index len(a)-1 holds lag 0.
// Signals of at least [FFTThreshold] samples are correlated via FFT.
func AutoCorrelate(a []float64) ([]float64, error) {
	if len(a) >= FFTThreshold {
		return CorrelateFFT(a, a)
	}
	return Correlate(a, a)
}

// AutoCorrelateOneSided returns the non-negative-lag half of the
// auto-correlation of a: out[k] = sum_i a[i]*a[i+k] for k in [0, len(a)).
func AutoCorrelateOneSided(a []float64) ([]float64, error) {
	full, err := AutoCorrelate(a)
	if err != nil {
		return nil, err
	}

	return full[len(full)/2:], nil
}

// CorrelateFFT computes cross-correlation using FFT.
// Inputs are zero-padded to a power of two so the circular result contains
// the full linear correlation.
func CorrelateFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(a)
	m := len(b)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i := 0; i < n; i++ {
		aPadded[i] = complex(a[i], 0)
	}
	for i := 0; i < m; i++ {
		bPadded[i] = complex(b[i], 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)

	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// A * conj(B)
	for i := range aFreq {
		aFreq[i] *= complex(real(bFreq[i]), -imag(bFreq[i]))
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// Positive lags sit at the start of the circular result, negative lags
	// wrap around to the end.
	result := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		result[m-1+i] = real(resultTime[i])
	}
	for i := 0; i < m-1; i++ {
		result[i] = real(resultTime[fftSize-m+1+i])
	}

	return result, nil
}

// FindPeak finds the index and value of the maximum in a correlation result.
// Ties resolve to the smallest index. Returns -1 for empty input.
func FindPeak(corr []float64) (index int, value float64) {
	return FindPeakFrom(corr, 0)
}

// FindPeakFrom is like [FindPeak] restricted to corr[from:]. The returned
// index refers to corr, not to the sub-slice.
func FindPeakFrom(corr []float64, from int) (index int, value float64) {
	if from < 0 {
		from = 0
	}
	if from >= len(corr) {
		return -1, 0
	}

	index = from
	value = corr[from]

	for i := from + 1; i < len(corr); i++ {
		if corr[i] > value {
			index = i
			value = corr[i]
		}
	}

	return index, value
}

// FirstRise returns the first index i with corr[i+1] - corr[i] > 0, i.e.
// the first local minimum of a decaying correlation. It returns -1 when the
// sequence never rises.
func FirstRise(corr []float64) int {
	for i := 0; i+1 < len(corr); i++ {
		if corr[i+1]-corr[i] > 0 {
			return i
		}
	}

	return -1
}
