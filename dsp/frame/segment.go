package frame

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

// ErrInvalidSegmentation reports window/shift/padding settings that cannot
// produce frames.
var ErrInvalidSegmentation = errors.New("frame: invalid segmentation")

// Config holds segmentation settings in milliseconds.
type Config struct {
	WindowLength float64
	FrameShift   float64
	Padding      float64
}

// DefaultConfig returns 32 ms windows every 15 ms with 16 ms of edge padding.
func DefaultConfig() Config {
	return Config{
		WindowLength: 32,
		FrameShift:   15,
		Padding:      16,
	}
}

// Bounds is the half-open sample range [First, Last) of one frame.
type Bounds struct {
	First, Last int
}

// Len returns the number of samples in the range.
func (b Bounds) Len() int { return b.Last - b.First }

// Segmenter slices recordings of one sample rate into frames.
type Segmenter struct {
	sampleRate float64
	window     int
	shift      int
	padding    int
}

// NewSegmenter converts cfg to sample counts at sampleRate and validates the
// result.
func NewSegmenter(cfg Config, sampleRate float64) (*Segmenter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %v", ErrInvalidSegmentation, sampleRate)
	}

	s := &Segmenter{
		sampleRate: sampleRate,
		window:     core.MillisToSamples(cfg.WindowLength, sampleRate),
		shift:      core.MillisToSamples(cfg.FrameShift, sampleRate),
		padding:    core.MillisToSamples(cfg.Padding, sampleRate),
	}

	var errs []error
	if s.window < MinLength {
		errs = append(errs, fmt.Errorf("%w: window of %v ms is %d samples at %v Hz, need >= %d",
			ErrInvalidSegmentation, cfg.WindowLength, s.window, sampleRate, MinLength))
	}
	if s.shift <= 0 {
		errs = append(errs, fmt.Errorf("%w: frame shift of %v ms is %d samples at %v Hz, need > 0",
			ErrInvalidSegmentation, cfg.FrameShift, s.shift, sampleRate))
	}
	if s.padding < 0 {
		errs = append(errs, fmt.Errorf("%w: padding must be >= 0: %v ms", ErrInvalidSegmentation, cfg.Padding))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return s, nil
}

// WindowSamples returns the window length in samples.
func (s *Segmenter) WindowSamples() int { return s.window }

// ShiftSamples returns the frame shift in samples.
func (s *Segmenter) ShiftSamples() int { return s.shift }

// PaddingSamples returns the edge padding in samples.
func (s *Segmenter) PaddingSamples() int { return s.padding }

// Count returns the number of frames produced for a recording of nSamples:
// the window start runs from -padding up to and including
// nSamples-window+padding in steps of the frame shift.
func (s *Segmenter) Count(nSamples int) int {
	start := -s.padding
	stop := nSamples - s.window + s.padding + 1
	if stop <= start {
		return 0
	}

	return (stop - start + s.shift - 1) / s.shift
}

// Bounds returns the clamped sample range of every frame in order.
func (s *Segmenter) Bounds(nSamples int) []Bounds {
	count := s.Count(nSamples)
	out := make([]Bounds, count)

	for i := range out {
		ini := -s.padding + i*s.shift
		first := core.ClampInt(ini, 0, nSamples)
		last := core.ClampInt(ini+s.window, first, nSamples)
		out[i] = Bounds{First: first, Last: last}
	}

	return out
}

// Split slices samples into frames. The frames alias samples.
func (s *Segmenter) Split(samples []float64) []Frame {
	bounds := s.Bounds(len(samples))
	frames := make([]Frame, len(bounds))

	for i, b := range bounds {
		frames[i] = Frame{
			Samples:    samples[b.First:b.Last:b.Last],
			SampleRate: s.sampleRate,
			Index:      i,
			Start:      b.First,
		}
	}

	return frames
}
