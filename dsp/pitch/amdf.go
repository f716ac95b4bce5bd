package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitch/dsp/frame"
	"github.com/cwbudde/algo-pitch/dsp/voicing"
)

// AMDF estimates f0 from the lag minimizing the average magnitude
// difference between a frame and its circular shift.
type AMDF struct {
	classifier *voicing.Classifier
}

// NewAMDF returns an AMDF estimator gated by classifier.
func NewAMDF(classifier *voicing.Classifier) *AMDF {
	return &AMDF{classifier: classifier}
}

// Method implements [Estimator].
func (*AMDF) Method() Method { return MethodAMDF }

// LagRange returns the half-open candidate lag range [kmin, kmax) covering
// periods between 1/350 s and 1/100 s.
func LagRange(sampleRate float64) (kmin, kmax int, err error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return 0, 0, err
	}

	kmin = int(math.Floor(sampleRate / AMDFMaxF0))
	kmax = int(math.Floor(sampleRate / AMDFMinF0))
	if kmin < 1 || kmin >= kmax {
		return 0, 0, fmt.Errorf("%w: [%d, %d) at %v Hz", ErrEmptyLagRange, kmin, kmax, sampleRate)
	}

	return kmin, kmax, nil
}

// Validate implements [Estimator].
func (*AMDF) Validate(sampleRate float64) error {
	_, _, err := LagRange(sampleRate)
	return err
}

// Estimate implements [Estimator].
func (a *AMDF) Estimate(x []float64, sampleRate float64) (float64, error) {
	kmin, kmax, err := LagRange(sampleRate)
	if err != nil {
		return 0, err
	}

	normalized, err := frame.Preprocess(x)
	if errors.Is(err, frame.ErrDegenerate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	set, err := frameFeatures(a.classifier, x, normalized)
	if err != nil {
		return 0, err
	}
	if a.classifier != nil && a.classifier.Classify(set) == voicing.Unvoiced {
		return 0, nil
	}

	minArg := kmin
	minValue := math.Inf(1)
	for k := kmin; k < kmax; k++ {
		d := CircularAMDF(normalized, k)
		if d < minValue {
			minValue = d
			minArg = k
		}
	}

	return sampleRate / float64(minArg), nil
}

// CircularAMDF returns (1/N) * sum |x[i] - x[(i+k) mod N]|.
func CircularAMDF(x []float64, k int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	shift := k % n
	if shift < 0 {
		shift += n
	}

	var sum float64
	for i, v := range x {
		j := i + shift
		if j >= n {
			j -= n
		}
		sum += math.Abs(v - x[j])
	}

	return sum / float64(n)
}
