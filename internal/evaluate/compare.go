// Package evaluate scores pitch tracks against reference tracks.
package evaluate

import (
	"errors"
	"fmt"
	"math"
)

const (
	// GrossThreshold is the relative error above which a voiced-voiced
	// frame counts as a gross error.
	GrossThreshold = 0.2
	// MaxFrameDiff is the largest frame-count mismatch that is truncated
	// rather than rejected.
	MaxFrameDiff = 5
)

var (
	// ErrFrameCount is returned when reference and test tracks differ by
	// more than MaxFrameDiff frames.
	ErrFrameCount = errors.New("evaluate: frame count mismatch")
	// ErrReference wraps failures to read a reference track.
	ErrReference = errors.New("evaluate: reference track")
	// ErrTrack wraps failures to read an estimated track.
	ErrTrack = errors.New("evaluate: test track")
)

// Stats summarizes the comparison of one or more track pairs.
type Stats struct {
	Frames           int
	Voiced           int
	Unvoiced         int
	VoicedAsUnvoiced int
	UnvoicedAsVoiced int
	VoicedVoiced     int
	GrossErrors      int
	// FineError is the RMS relative error over voiced-voiced frames below
	// the gross threshold. For a summary it is the mean of per-file values.
	FineError float64
}

// Align truncates the longer track to the length of the shorter one.
func Align(ref, test []float64) ([]float64, []float64, error) {
	diff := len(ref) - len(test)
	if diff > MaxFrameDiff || diff < -MaxFrameDiff {
		return nil, nil, fmt.Errorf("%w: %d reference frames, %d test frames", ErrFrameCount, len(ref), len(test))
	}

	n := min(len(ref), len(test))
	return ref[:n], test[:n], nil
}

// Compare scores test against ref frame by frame. A value of 0 marks an
// unvoiced frame. Tracks of different length yield only the frame count.
func Compare(ref, test []float64) Stats {
	s := Stats{Frames: len(ref)}
	if len(ref) != len(test) {
		return s
	}

	var sumSq float64
	var fine int
	for i, r := range ref {
		v := test[i]

		if r == 0 {
			s.Unvoiced++
		} else {
			s.Voiced++
		}

		switch {
		case r == 0 && v == 0:
		case r == 0:
			s.UnvoicedAsVoiced++
		case v == 0:
			s.VoicedAsUnvoiced++
		default:
			s.VoicedVoiced++
			e := math.Abs((r - v) / r)
			if e > GrossThreshold {
				s.GrossErrors++
			} else {
				fine++
				sumSq += e * e
			}
		}
	}

	if fine > 0 {
		s.FineError = math.Sqrt(sumSq / float64(fine))
	}

	return s
}

// Summary accumulates per-file statistics.
type Summary struct {
	Stats
	Files   int
	fineSum float64
}

// Add folds one file's statistics into the summary.
func (s *Summary) Add(f Stats) {
	s.Frames += f.Frames
	s.Voiced += f.Voiced
	s.Unvoiced += f.Unvoiced
	s.VoicedAsUnvoiced += f.VoicedAsUnvoiced
	s.UnvoicedAsVoiced += f.UnvoicedAsVoiced
	s.VoicedVoiced += f.VoicedVoiced
	s.GrossErrors += f.GrossErrors
	s.fineSum += f.FineError
	s.Files++
	s.FineError = s.fineSum / float64(s.Files)
}

// UnvoicedAsVoicedRate returns the fraction of unvoiced reference frames
// reported as voiced, or NaN when there are none.
func (s Stats) UnvoicedAsVoicedRate() float64 { return ratio(s.UnvoicedAsVoiced, s.Unvoiced) }

// VoicedAsUnvoicedRate returns the fraction of voiced reference frames
// reported as unvoiced, or NaN when there are none.
func (s Stats) VoicedAsUnvoicedRate() float64 { return ratio(s.VoicedAsUnvoiced, s.Voiced) }

// GrossErrorRate returns the fraction of voiced-voiced frames with a gross
// error, or NaN when there are none.
func (s Stats) GrossErrorRate() float64 { return ratio(s.GrossErrors, s.VoicedVoiced) }

func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}
