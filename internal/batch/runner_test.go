package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/frame"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/signal"
	"github.com/cwbudde/algo-pitch/internal/config"
	"github.com/cwbudde/algo-pitch/internal/corpus"
	"github.com/cwbudde/algo-pitch/internal/observe"
	"github.com/cwbudde/algo-pitch/internal/testutil"
	"github.com/cwbudde/algo-pitch/internal/wavio"
)

func writeWAV(t *testing.T, dir, name string, data []float64, sampleRate int) corpus.Entry {
	t.Helper()

	pcm, err := signal.ToPCM(data, 16)
	if err != nil {
		t.Fatalf("ToPCM: %v", err)
	}

	e := corpus.Entry{Name: name, Dir: dir}
	if err := os.MkdirAll(filepath.Dir(e.WAVPath()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := wavio.Write(e.WAVPath(), pcm, sampleRate, 16, 1); err != nil {
		t.Fatalf("wavio.Write: %v", err)
	}
	return e
}

func sine(t *testing.T, freq, sampleRate, seconds float64) []float64 {
	t.Helper()

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	x, err := g.Sine(freq, 0.5, g.Samples(seconds))
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	return x
}

func newTestRunner(t *testing.T, cfg config.Config, opts ...Option) *Runner {
	t.Helper()

	r, err := NewRunner(cfg, append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	entry := writeWAV(t, dir, "spk/tone", sine(t, 150, 16000, 1), 16000)

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Method = "autocorrelation"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := newTestRunner(t, cfg, WithLogger(logger), WithRunID("run-150"))
	report, err := r.Run(context.Background(), []corpus.Entry{entry})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	marker, err := os.ReadFile(filepath.Join(dir, "spk", corpus.MarkerName))
	if err != nil {
		t.Fatalf("marker: %v", err)
	}
	if string(marker) != "autocorrelation\n" {
		t.Fatalf("marker = %q", marker)
	}

	track, err := wavio.ReadF0(entry.TrackPath())
	if err != nil {
		t.Fatalf("ReadF0: %v", err)
	}

	seg, err := frame.NewSegmenter(cfg.Segmentation(), 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(track) != seg.Count(16000) {
		t.Fatalf("track has %d frames, want %d", len(track), seg.Count(16000))
	}

	for i, b := range seg.Bounds(16000) {
		if b.Len() != seg.WindowSamples() {
			continue
		}
		if math.Abs(track[i]-150) > 7 {
			t.Fatalf("frame %d: f0 = %v, want 150 +/- 7", i, track[i])
		}
	}

	if report.RunID != "run-150" || report.Frames() != len(track) || report.Recordings[0].Faults != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	// Amplitude 0.5 of full scale.
	if lvl := report.Recordings[0].Level; math.Abs(lvl.PeakdBFS+6.02) > 0.05 || lvl.Clipped != 0 {
		t.Fatalf("unexpected level: %+v", lvl)
	}

	out := logs.String()
	for _, want := range []string{"run_id=run-150", "method=autocorrelation", "msg=Processing", "recording done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRunKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()

	silence := make([]float64, 8000)
	entries := []corpus.Entry{
		writeWAV(t, dir, "a", sine(t, 150, 16000, 0.5), 16000),
		writeWAV(t, dir, "b", silence, 16000),
		writeWAV(t, dir, "c", sine(t, 200, 8000, 0.5), 8000),
	}

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Method = "amdf"
	cfg.Workers = 3

	report, err := newTestRunner(t, cfg).Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, rec := range report.Recordings {
		if rec.Entry.Name != entries[i].Name {
			t.Fatalf("recording %d is %q, want %q", i, rec.Entry.Name, entries[i].Name)
		}
	}

	if report.Recordings[0].Voiced == 0 || report.Recordings[2].Voiced == 0 {
		t.Fatal("expected voiced frames in tone recordings")
	}
	if report.Recordings[1].Voiced != 0 {
		t.Fatalf("silent recording has %d voiced frames", report.Recordings[1].Voiced)
	}
	if report.Recordings[2].SampleRate != 8000 {
		t.Fatalf("SampleRate = %v", report.Recordings[2].SampleRate)
	}
}

func TestRunValidatesBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	entries := []corpus.Entry{
		writeWAV(t, dir, "good", sine(t, 150, 16000, 0.2), 16000),
		writeWAV(t, dir, "slow", make([]float64, 300), 300),
	}

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Method = "amdf"

	_, err := newTestRunner(t, cfg).Run(context.Background(), entries)
	if !errors.Is(err, pitch.ErrEmptyLagRange) {
		t.Fatalf("Run() = %v, want ErrEmptyLagRange", err)
	}

	for _, p := range []string{filepath.Join(dir, corpus.MarkerName), entries[0].TrackPath()} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s was written despite validation failure", p)
		}
	}
}

func TestRunMissingRecording(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	_, err := newTestRunner(t, cfg).Run(context.Background(), []corpus.Entry{{Name: "nope", Dir: cfg.DataDir}})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Run() = %v, want ErrNotExist", err)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	entry := writeWAV(t, dir, "a", sine(t, 150, 16000, 0.2), 16000)

	cfg := config.Default()
	cfg.DataDir = dir

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestRunner(t, cfg).Run(ctx, []corpus.Entry{entry}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}

type flakyEstimator struct {
	pitch.Estimator
	calls atomic.Int64
}

func (f *flakyEstimator) Estimate(x []float64, sampleRate float64) (float64, error) {
	if f.calls.Add(1) == 3 {
		panic("boom")
	}
	return f.Estimator.Estimate(x, sampleRate)
}

func TestRunIsolatesFrameFaults(t *testing.T) {
	dir := t.TempDir()
	entry := writeWAV(t, dir, "a", sine(t, 150, 16000, 0.3), 16000)

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Method = "autocorrelation"

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatal(err)
	}

	r := newTestRunner(t, cfg, WithMetrics(metrics))
	r.newEstimator = func(int) (pitch.Estimator, error) {
		return &flakyEstimator{Estimator: pitch.NewAutocorrelation()}, nil
	}

	report, err := r.Run(context.Background(), []corpus.Entry{entry})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := report.Recordings[0]
	if rec.Faults != 1 {
		t.Fatalf("Faults = %d, want 1", rec.Faults)
	}
	if rec.F0[2] != 0 {
		t.Fatalf("faulted frame = %v, want 0", rec.F0[2])
	}
	if math.Abs(rec.F0[3]-150) > 7 {
		t.Fatalf("frame after fault = %v, want ~150", rec.F0[3])
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var faults int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "pitch.frame_faults" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				faults += dp.Value
			}
		}
	}
	if faults != 1 {
		t.Fatalf("pitch.frame_faults = %d, want 1", faults)
	}
}

func TestCepstrumOutputIndependentOfWorkers(t *testing.T) {
	dir := t.TempDir()

	g := signal.NewGenerator(core.WithSampleRate(16000))

	var entries []corpus.Entry
	for i, f0 := range []float64{120, 160, 200, 240} {
		x, err := g.Harmonic(f0, 0.1, 8, 8000)
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, writeWAV(t, dir, string(rune('a'+i)), x, 16000))
	}

	run := func(workers int) [][]float64 {
		cfg := config.Default()
		cfg.DataDir = dir
		cfg.Method = "cepstrum"
		cfg.Seed = 99
		cfg.Workers = workers

		report, err := newTestRunner(t, cfg).Run(context.Background(), entries)
		if err != nil {
			t.Fatalf("Run(workers=%d): %v", workers, err)
		}

		out := make([][]float64, len(report.Recordings))
		for i, rec := range report.Recordings {
			out[i] = rec.F0
		}
		return out
	}

	serial, parallel := run(1), run(4)
	for i := range serial {
		testutil.RequireSliceNearlyEqual(t, parallel[i], serial[i], 0)
	}
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Method = "yin"

	if _, err := NewRunner(cfg); !errors.Is(err, pitch.ErrUnknownMethod) {
		t.Fatalf("NewRunner() = %v, want ErrUnknownMethod", err)
	}
}

func TestRunEmptyList(t *testing.T) {
	if _, err := newTestRunner(t, config.Default()).Run(context.Background(), nil); !errors.Is(err, corpus.ErrEmptyList) {
		t.Fatalf("Run(nil) = %v, want ErrEmptyList", err)
	}
}
