package frame

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinLength is the shortest frame that difference-based features accept.
const MinLength = 2

// ErrDegenerate marks a frame without analysable content: silent after mean
// removal, or shorter than MinLength. It resolves to an unvoiced frame.
var ErrDegenerate = errors.New("frame: degenerate frame")

// Frame is a slice of a recording. Samples aliases the parent buffer and
// must be treated as read-only.
type Frame struct {
	Samples    []float64
	SampleRate float64
	// Index is the position of the frame in the recording's frame sequence.
	Index int
	// Start is the offset of Samples[0] in the recording.
	Start int
}

// Len returns the number of samples in the frame.
func (f Frame) Len() int { return len(f.Samples) }

// Preprocess returns a mean-centered copy of x scaled to a peak magnitude of
// 1. x is not modified.
func Preprocess(x []float64) ([]float64, error) {
	if len(x) < MinLength {
		return nil, fmt.Errorf("%w: %d samples", ErrDegenerate, len(x))
	}

	// Constant input: the mean can leave a rounding residue that would
	// otherwise normalize to a full-scale square wave.
	if floats.Max(x) == floats.Min(x) {
		return nil, fmt.Errorf("%w: silent", ErrDegenerate)
	}

	mean := stat.Mean(x, nil)

	centered := core.Clone(x)
	floats.AddConst(-mean, centered)

	amax := PeakAbs(centered)

	out := make([]float64, len(x))
	vecmath.ScaleBlock(out, centered, 1/amax)

	return out, nil
}

// PeakAbs returns the maximum absolute value of x, or 0 for empty input.
func PeakAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	hi := floats.Max(x)
	lo := floats.Min(x)
	if -lo > hi {
		return -lo
	}

	return hi
}
