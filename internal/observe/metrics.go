// Package observe provides application-wide observability primitives:
// OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/dhvani-ai/dhvani"

// Metrics holds all OpenTelemetry metric instruments for the pipeline.
// All fields are safe for concurrent use.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// TurnDuration tracks the length of captured audio turns.
	TurnDuration metric.Float64Histogram

	// ASRDuration tracks transcription latency per turn.
	ASRDuration metric.Float64Histogram

	// ClassifyDuration tracks intent resolution latency.
	ClassifyDuration metric.Float64Histogram

	// SynthesisDuration tracks text-to-speech synthesis latency.
	SynthesisDuration metric.Float64Histogram

	// --- Counters ---

	// Corrections counts turns whose text the correction cascade changed.
	Corrections metric.Int64Counter

	// Intents counts resolved intents. Use with attributes:
	//   attribute.String("intent", ...), attribute.String("source", ...)
	Intents metric.Int64Counter

	// CacheHits and CacheMisses count response cache lookups.
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	// ProviderErrors counts collaborator failures. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// single-board-computer inference latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TurnDuration, err = m.Float64Histogram("dhvani.turn.duration",
		metric.WithDescription("Length of captured audio turns."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ASRDuration, err = m.Float64Histogram("dhvani.asr.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ClassifyDuration, err = m.Float64Histogram("dhvani.classify.duration",
		metric.WithDescription("Latency of intent resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesisDuration, err = m.Float64Histogram("dhvani.synthesis.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Corrections, err = m.Int64Counter("dhvani.corrections",
		metric.WithDescription("Turns whose transcript the correction cascade changed."),
	); err != nil {
		return nil, err
	}
	if met.Intents, err = m.Int64Counter("dhvani.intents",
		metric.WithDescription("Resolved intents by label and cascade source."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("dhvani.cache.hits",
		metric.WithDescription("Response cache hits."),
	); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("dhvani.cache.misses",
		metric.WithDescription("Response cache misses."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("dhvani.provider.errors",
		metric.WithDescription("Collaborator errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails (should not happen with the global provider).
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

// RecordIntent records one resolved intent with the standard attribute set.
func (m *Metrics) RecordIntent(ctx context.Context, label, source string) {
	m.Intents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", label),
		attribute.String("source", source),
	))
}

// RecordProviderError records one collaborator failure with the standard
// attribute set.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("kind", kind),
	))
}
