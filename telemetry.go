package glide

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/phanxgames/glide"

const (
	// attrContext labels changeset records with the context's name.
	attrContext = "glide.context"
	// attrAnomaly labels anomaly records with their kind.
	attrAnomaly = "glide.anomaly"
)

// telemetry holds the OpenTelemetry instruments of one Animator.
type telemetry struct {
	tracer trace.Tracer

	// diffDuration measures one diff cycle, from flushing staged additions to
	// the last changeset being emitted.
	diffDuration metric.Float64Histogram
	// diffFailures counts diff cycles that returned an error.
	diffFailures metric.Int64Counter
	// anomalies counts non-fatal matching anomalies by kind.
	anomalies metric.Int64Counter
	// changesets counts emitted changesets per context name.
	changesets metric.Int64Counter
}

func newTelemetry(mp metric.MeterProvider, tp trace.TracerProvider) *telemetry {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.diffDuration, err = meter.Float64Histogram(
		"glide.diff.duration",
		metric.WithDescription("The duration of a single diff cycle."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("glide: failed to init 'glide.diff.duration' instrument")
	}
	t.diffFailures, err = meter.Int64Counter(
		"glide.diff.failures",
		metric.WithDescription("The number of diff cycles that returned an error."),
	)
	if err != nil {
		panic("glide: failed to init 'glide.diff.failures' instrument")
	}
	t.anomalies, err = meter.Int64Counter(
		"glide.diff.anomalies",
		metric.WithDescription("The number of non-fatal matching anomalies, by kind."),
	)
	if err != nil {
		panic("glide: failed to init 'glide.diff.anomalies' instrument")
	}
	t.changesets, err = meter.Int64Counter(
		"glide.changesets",
		metric.WithDescription("The number of changesets emitted, by context."),
	)
	if err != nil {
		panic("glide: failed to init 'glide.changesets' instrument")
	}
	return t
}

// measureDiff records the outcome of a diff cycle.
func (t *telemetry) measureDiff(ctx context.Context, succeeded bool, d time.Duration) {
	if !succeeded {
		t.diffFailures.Add(ctx, 1)
		return
	}
	t.diffDuration.Record(ctx, float64(d)/float64(time.Millisecond))
}

func (t *telemetry) recordAnomaly(ctx context.Context, kind string) {
	attrs := attribute.NewSet(attribute.String(attrAnomaly, kind))
	t.anomalies.Add(ctx, 1, metric.WithAttributeSet(attrs))
}

func (t *telemetry) recordChangeset(ctx context.Context, cs *Changeset) {
	attrs := attribute.NewSet(attribute.String(attrContext, cs.Context.Name))
	t.changesets.Add(ctx, 1, metric.WithAttributeSet(attrs))
}
