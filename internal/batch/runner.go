// Package batch runs pitch estimation over a corpus of recordings and
// writes one track file per recording.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-pitch/dsp/frame"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/voicing"
	"github.com/cwbudde/algo-pitch/internal/config"
	"github.com/cwbudde/algo-pitch/internal/corpus"
	"github.com/cwbudde/algo-pitch/internal/observe"
	"github.com/cwbudde/algo-pitch/internal/wavio"
	"github.com/cwbudde/algo-pitch/stats/level"
)

// Recording is the outcome for one corpus entry.
type Recording struct {
	Entry      corpus.Entry
	Input      string
	Output     string
	SampleRate float64
	Level      level.Summary
	F0         []float64
	Voiced     int
	Faults     int
	Elapsed    time.Duration
}

// Report summarizes a run.
type Report struct {
	RunID      string
	Method     pitch.Method
	Marker     string
	Recordings []Recording
}

// Frames returns the total number of frames written.
func (r *Report) Frames() int {
	var n int
	for _, rec := range r.Recordings {
		n += len(rec.F0)
	}
	return n
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metric instruments. The default is
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

type estimatorFactory func(index int) (pitch.Estimator, error)

// Runner analyses corpora with one fixed configuration.
type Runner struct {
	cfg     config.Config
	method  pitch.Method
	policy  voicing.Policy
	workers int

	logger  *slog.Logger
	metrics *observe.Metrics
	runID   string

	newEstimator estimatorFactory
}

// NewRunner validates cfg and prepares a runner.
func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	method, err := pitch.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	policy, err := voicing.ParsePolicy(cfg.VoicingPolicy)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		method:  method,
		policy:  policy,
		workers: cfg.WorkerLimit(),
		logger:  slog.Default(),
		metrics: observe.DefaultMetrics(),
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = r.logger.With("run_id", r.runID, "method", r.method.String())
	if r.newEstimator == nil {
		r.newEstimator = r.defaultEstimator
	}

	return r, nil
}

// RunID returns the identifier attached to every log record of the runner.
func (r *Runner) RunID() string { return r.runID }

// Method returns the estimation method.
func (r *Runner) Method() pitch.Method { return r.method }

// defaultEstimator gives recording i its own estimator. The cepstrum dither
// seed depends only on i, so output does not depend on scheduling.
func (r *Runner) defaultEstimator(index int) (pitch.Estimator, error) {
	return pitch.New(r.method,
		pitch.WithPolicy(r.policy),
		pitch.WithSeed(r.cfg.Seed+uint64(index)),
	)
}

type job struct {
	entry     corpus.Entry
	rec       *wavio.Recording
	seg       *frame.Segmenter
	estimator pitch.Estimator
}

// Run loads every recording, checks that each can be analysed with the
// configured method, writes the method marker and then the track files.
// Nothing is written when loading or validation fails.
func (r *Runner) Run(ctx context.Context, entries []corpus.Entry) (*Report, error) {
	markerPath, err := corpus.MarkerPath(entries)
	if err != nil {
		return nil, err
	}

	jobs, err := r.prepare(ctx, entries)
	if err != nil {
		return nil, err
	}

	if err := wavio.WriteMarker(markerPath, r.method.String()); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      r.runID,
		Method:     r.method,
		Marker:     markerPath,
		Recordings: make([]Recording, len(jobs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := r.process(gctx, j)
			if err != nil {
				return err
			}
			report.Recordings[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *Runner) prepare(ctx context.Context, entries []corpus.Entry) ([]job, error) {
	jobs := make([]job, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := wavio.Read(e.WAVPath())
			if err != nil {
				return err
			}
			jobs[i] = job{entry: e, rec: rec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for i := range jobs {
		j := &jobs[i]

		seg, err := frame.NewSegmenter(r.cfg.Segmentation(), j.rec.SampleRate)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.rec.Path, err))
			continue
		}
		est, err := r.newEstimator(i)
		if err != nil {
			return nil, err
		}
		if err := est.Validate(j.rec.SampleRate); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.rec.Path, err))
			continue
		}

		j.seg = seg
		j.estimator = est
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return jobs, nil
}

func (r *Runner) process(ctx context.Context, j job) (Recording, error) {
	start := time.Now()
	input, output := j.rec.Path, j.entry.TrackPath()
	method := r.method.String()

	r.logger.Info("Processing", "file", input, "output", output)

	frames := j.seg.Split(j.rec.Samples)
	out := Recording{
		Entry:      j.entry,
		Input:      input,
		Output:     output,
		SampleRate: j.rec.SampleRate,
		Level:      level.Measure(j.rec.Samples, level.FullScale(j.rec.BitDepth)),
		F0:         make([]float64, len(frames)),
	}
	if out.Level.Clipped > 0 {
		r.logger.Warn("recording clips", "file", input, "clipped_samples", out.Level.Clipped)
	}

	for _, fr := range frames {
		if err := ctx.Err(); err != nil {
			return Recording{}, err
		}

		f0, err := r.estimate(j.estimator, fr)
		if err != nil {
			out.Faults++
			r.metrics.RecordFrameFault(ctx, method)
			r.logger.Warn("frame estimation failed", "file", input, "frame", fr.Index, "error", err)
			f0 = 0
		}

		out.F0[fr.Index] = f0
		if f0 > 0 {
			out.Voiced++
		}
		r.metrics.RecordFrame(ctx, method, f0 > 0)
	}

	if err := wavio.WriteF0(output, out.F0); err != nil {
		r.metrics.RecordRecording(ctx, method, "error", time.Since(start).Seconds())
		return Recording{}, err
	}

	out.Elapsed = time.Since(start)
	r.metrics.RecordRecording(ctx, method, "ok", out.Elapsed.Seconds())
	r.logger.Debug("recording done",
		"file", input,
		"frames", len(out.F0),
		"voiced", out.Voiced,
		"faults", out.Faults,
		"rms_dbfs", out.Level.RMSdBFS,
		"peak_dbfs", out.Level.PeakdBFS,
		"elapsed", out.Elapsed,
	)

	return out, nil
}

// estimate isolates a single frame: a panic inside the estimator becomes an
// error for that frame only.
func (r *Runner) estimate(est pitch.Estimator, fr frame.Frame) (f0 float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			f0, err = 0, fmt.Errorf("batch: panic in frame %d: %v", fr.Index, p)
		}
	}()

	return est.Estimate(fr.Samples, fr.SampleRate)
}
