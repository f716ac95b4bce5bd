package frame

import (
	"errors"
	"testing"
)

// rangeLen counts start, start+step, ... below stop, for step > 0.
func rangeLen(start, stop, step int) int {
	n := 0
	for i := start; i < stop; i += step {
		n++
	}
	return n
}

func TestSegmenterSampleCounts(t *testing.T) {
	s, err := NewSegmenter(DefaultConfig(), 16000)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	if s.WindowSamples() != 512 || s.ShiftSamples() != 240 || s.PaddingSamples() != 256 {
		t.Fatalf("samples = %d/%d/%d, want 512/240/256",
			s.WindowSamples(), s.ShiftSamples(), s.PaddingSamples())
	}
}

func TestSegmenterCountMatchesRange(t *testing.T) {
	configs := []struct {
		cfg        Config
		sampleRate float64
	}{
		{cfg: DefaultConfig(), sampleRate: 16000},
		{cfg: DefaultConfig(), sampleRate: 44100},
		{cfg: Config{WindowLength: 25, FrameShift: 10, Padding: 0}, sampleRate: 8000},
		{cfg: Config{WindowLength: 10, FrameShift: 5, Padding: 20}, sampleRate: 8000},
	}

	for _, c := range configs {
		s, err := NewSegmenter(c.cfg, c.sampleRate)
		if err != nil {
			t.Fatalf("NewSegmenter(%+v): %v", c.cfg, err)
		}

		for _, n := range []int{0, 1, 100, 511, 512, 513, 16000, 48123} {
			want := rangeLen(-s.padding, n-s.window+s.padding+1, s.shift)
			if got := s.Count(n); got != want {
				t.Errorf("%+v @ %v Hz, n=%d: Count = %d, want %d", c.cfg, c.sampleRate, n, got, want)
			}
			if got := len(s.Bounds(n)); got != want {
				t.Errorf("%+v @ %v Hz, n=%d: len(Bounds) = %d, want %d", c.cfg, c.sampleRate, n, got, want)
			}
		}
	}
}

func TestSegmenterBoundsClampAtEdges(t *testing.T) {
	s, err := NewSegmenter(DefaultConfig(), 16000)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	const n = 16000
	bounds := s.Bounds(n)

	if first := bounds[0]; first.First != 0 || first.Last != 256 {
		t.Fatalf("first frame = %+v, want [0, 256)", first)
	}
	if b := bounds[2]; b.First != 224 || b.Last != 736 {
		t.Fatalf("third frame = %+v, want [224, 736)", b)
	}

	last := bounds[len(bounds)-1]
	if last.Last != n {
		t.Fatalf("last frame ends at %d, want %d", last.Last, n)
	}
	for i, b := range bounds {
		if b.First < 0 || b.Last > n || b.Len() < 0 || b.Len() > s.window {
			t.Fatalf("frame %d out of range: %+v", i, b)
		}
	}
}

func TestSegmenterPaddingWiderThanWindow(t *testing.T) {
	s, err := NewSegmenter(Config{WindowLength: 1, FrameShift: 1, Padding: 2}, 1000)
	if err == nil {
		t.Fatal("expected error for 1-sample window")
	}

	s, err = NewSegmenter(Config{WindowLength: 2, FrameShift: 1, Padding: 4}, 1000)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	for _, b := range s.Bounds(3) {
		if b.Len() < 0 || b.First > 3 || b.Last > 3 {
			t.Fatalf("bad bounds %+v", b)
		}
	}
}

func TestSplitAliasesRecording(t *testing.T) {
	s, err := NewSegmenter(Config{WindowLength: 4, FrameShift: 2, Padding: 0}, 1000)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	rec := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	frames := s.Split(rec)

	if len(frames) != 3 {
		t.Fatalf("len(frames) = %d, want 3", len(frames))
	}
	if f := frames[1]; f.Start != 2 || f.Index != 1 || f.Len() != 4 || f.Samples[0] != 2 || f.SampleRate != 1000 {
		t.Fatalf("frame 1 = %+v", f)
	}
	if cap(frames[0].Samples) != 4 {
		t.Fatalf("frame capacity = %d, want 4", cap(frames[0].Samples))
	}
}

func TestNewSegmenterValidation(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		sampleRate float64
	}{
		{name: "zero shift", cfg: Config{WindowLength: 32, FrameShift: 0, Padding: 16}, sampleRate: 16000},
		{name: "negative padding", cfg: Config{WindowLength: 32, FrameShift: 15, Padding: -1}, sampleRate: 16000},
		{name: "zero window", cfg: Config{WindowLength: 0, FrameShift: 15}, sampleRate: 16000},
		{name: "zero rate", cfg: DefaultConfig(), sampleRate: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegmenter(tt.cfg, tt.sampleRate)
			if !errors.Is(err, ErrInvalidSegmentation) {
				t.Fatalf("expected ErrInvalidSegmentation, got %v", err)
			}
		})
	}
}
