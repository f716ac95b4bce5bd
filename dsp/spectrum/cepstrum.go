package spectrum

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrShortInput is returned when a cepstrum is requested for fewer than two samples.
var ErrShortInput = errors.New("spectrum: cepstrum needs at least 2 samples")

// minLogMagnitude floors spectral magnitudes before the logarithm so an
// exactly-zero bin yields a large negative value instead of -Inf.
const minLogMagnitude = 1e-300

// RealCepstrum returns |IRFFT(log|RFFT(x)|)|.
//
// The forward transform has len(x)/2+1 bins; the inverse transform length is
// 2*(bins-1), so an odd-length input yields one sample less than it has.
// The inverse is normalized by its length.
func RealCepstrum(x []float64) ([]float64, error) {
	if len(x) < 2 {
		return nil, ErrShortInput
	}

	bins := fourier.NewFFT(len(x)).Coefficients(nil, x)

	logMag := Magnitude(bins)
	for i, m := range logMag {
		bins[i] = complex(math.Log(math.Max(m, minLogMagnitude)), 0)
	}

	n := 2 * (len(bins) - 1)
	seq := fourier.NewFFT(n).Sequence(nil, bins)

	scale := 1 / float64(n)
	for i, v := range seq {
		seq[i] = math.Abs(v * scale)
	}

	return seq, nil
}
