// Package observe provides the OpenTelemetry instruments recorded by a pitch
// run. Without an installed MeterProvider the global no-op provider makes
// recording free; tests use [NewMetrics] with an SDK provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cwbudde/algo-pitch"

// Metrics holds the instruments for a batch run. All fields are safe for
// concurrent use.
type Metrics struct {
	// Frames counts analysed frames. Attributes: method, voiced.
	Frames metric.Int64Counter

	// FrameFaults counts frames whose estimation panicked. Attribute: method.
	FrameFaults metric.Int64Counter

	// Recordings counts processed recordings. Attributes: method, status.
	Recordings metric.Int64Counter

	// RecordingDuration tracks wall-clock analysis time per recording.
	RecordingDuration metric.Float64Histogram
}

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("pitch.frames",
		metric.WithDescription("Analysed frames by method and voicing outcome."),
	); err != nil {
		return nil, err
	}
	if met.FrameFaults, err = m.Int64Counter("pitch.frame_faults",
		metric.WithDescription("Frames whose estimation failed and were recorded as unvoiced."),
	); err != nil {
		return nil, err
	}
	if met.Recordings, err = m.Int64Counter("pitch.recordings",
		metric.WithDescription("Processed recordings by method and status."),
	); err != nil {
		return nil, err
	}
	if met.RecordingDuration, err = m.Float64Histogram("pitch.recording.duration",
		metric.WithDescription("Analysis time per recording."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a shared instance backed by [otel.GetMeterProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordFrame counts one analysed frame.
func (m *Metrics) RecordFrame(ctx context.Context, method string, voiced bool) {
	m.Frames.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("voiced", voiced),
	))
}

// RecordFrameFault counts one frame that failed and was written as 0.
func (m *Metrics) RecordFrameFault(ctx context.Context, method string) {
	m.FrameFaults.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// RecordRecording counts a finished recording and its analysis time.
func (m *Metrics) RecordRecording(ctx context.Context, method, status string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", status),
	)
	m.Recordings.Add(ctx, 1, attrs)
	m.RecordingDuration.Record(ctx, seconds, attrs)
}
