// Package observe provides the OpenTelemetry metrics of the heart rate
// pipeline.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is set up by [InitProvider] so they can be scraped on a
// /metrics endpoint. Tests should use [NewMetrics] with their own
// [metric.MeterProvider].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of all thump metrics.
const meterName = "github.com/noriah/thump"

// Frame outcomes recorded on FramesTotal.
const (
	OutcomeAdmitted = "admitted"
	OutcomeDropped  = "dropped"
	OutcomeRejected = "rejected"
)

// Metrics holds the metric instruments. A nil *Metrics records nothing.
type Metrics struct {
	// FramesTotal counts frames offered to the processor. Use with attribute:
	//   attribute.String("outcome", ...)
	FramesTotal metric.Int64Counter

	// Estimates counts emitted BPM values. Use with attribute:
	//   attribute.String("mode", ...)
	Estimates metric.Int64Counter

	// PresenceChanges counts reported finger transitions. Use with attribute:
	//   attribute.String("presence", ...)
	PresenceChanges metric.Int64Counter

	// CycleDuration tracks one reduce and estimate cycle.
	CycleDuration metric.Float64Histogram

	// LastBPM is the most recent estimate.
	LastBPM metric.Int64Gauge
}

// cycleBuckets are histogram bucket boundaries (in seconds) around the
// 33ms frame budget.
var cycleBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesTotal, err = m.Int64Counter("thump.frames",
		metric.WithDescription("Frames offered to the processor by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Estimates, err = m.Int64Counter("thump.estimates",
		metric.WithDescription("Heart rate estimates emitted."),
	); err != nil {
		return nil, err
	}
	if met.PresenceChanges, err = m.Int64Counter("thump.presence.changes",
		metric.WithDescription("Reported finger presence transitions."),
	); err != nil {
		return nil, err
	}
	if met.CycleDuration, err = m.Float64Histogram("thump.cycle.duration",
		metric.WithDescription("Time to reduce a frame and run the estimator."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(cycleBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LastBPM, err = m.Int64Gauge("thump.bpm",
		metric.WithDescription("Last heart rate estimate."),
		metric.WithUnit("{beat}/min"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package level [Metrics], created on first call
// from [otel.GetMeterProvider].
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

// RecordFrame counts one frame with the given outcome.
func (m *Metrics) RecordFrame(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.FramesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordEstimate counts one estimate and sets the BPM gauge.
func (m *Metrics) RecordEstimate(ctx context.Context, mode string, bpm int) {
	if m == nil {
		return
	}
	m.Estimates.Add(ctx, 1,
		metric.WithAttributes(attribute.String("mode", mode)),
	)
	m.LastBPM.Record(ctx, int64(bpm))
}

// RecordPresence counts one presence transition.
func (m *Metrics) RecordPresence(ctx context.Context, presence string) {
	if m == nil {
		return
	}
	m.PresenceChanges.Add(ctx, 1,
		metric.WithAttributes(attribute.String("presence", presence)),
	)
}

// RecordCycle observes one cycle duration in seconds.
func (m *Metrics) RecordCycle(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.CycleDuration.Record(ctx, seconds)
}
