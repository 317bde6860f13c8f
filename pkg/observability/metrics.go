package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricUpdatesTotal      = "commitplot.filter.updates.total"
	metricRejectedTotal     = "commitplot.filter.rejected.total"
	metricRecomputeDuration = "commitplot.filter.recompute.duration.seconds"
	metricVisibleCommits    = "commitplot.filter.visible.commits"
	metricSelectedCommits   = "commitplot.filter.selected.commits"
	metricRowsTotal         = "commitplot.ingest.rows.total"

	attrOp     = "op"
	attrStatus = "status"

	statusAccepted = "accepted"
	statusSkipped  = "skipped"
)

// recomputeBucketBoundaries covers 10µs to 1s. A recompute is a linear scan
// of the commit store.
var recomputeBucketBoundaries = []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// metricBuilder keeps the first instrument creation error so a batch of
// instruments needs a single check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) gauge(name, desc, unit string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return g
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// EngineMetrics holds the instruments of the filter engine and the ingestor.
// Every Record method is a no-op on a nil receiver.
type EngineMetrics struct {
	updatesTotal      metric.Int64Counter
	rejectedTotal     metric.Int64Counter
	recomputeDuration metric.Float64Histogram
	visibleCommits    metric.Int64Gauge
	selectedCommits   metric.Int64Gauge
	rowsTotal         metric.Int64Counter
}

// NewEngineMetrics creates the engine instruments from mt.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	b := newMetricBuilder(mt)

	em := &EngineMetrics{
		updatesTotal:  b.counter(metricUpdatesTotal, "Accepted filter updates by operation", "{update}"),
		rejectedTotal: b.counter(metricRejectedTotal, "Filter inputs rejected as invalid", "{update}"),
		recomputeDuration: b.histogram(metricRecomputeDuration, "Time to recompute visible and selected sets", "s",
			recomputeBucketBoundaries...),
		visibleCommits:  b.gauge(metricVisibleCommits, "Commits passing the time filter", "{commit}"),
		selectedCommits: b.gauge(metricSelectedCommits, "Visible commits inside the brushed region", "{commit}"),
		rowsTotal:       b.counter(metricRowsTotal, "Change log rows by outcome", "{row}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return em, nil
}

// RecordUpdate records one accepted filter operation and the resulting set
// sizes.
func (em *EngineMetrics) RecordUpdate(ctx context.Context, op string, took time.Duration, visible, selected int) {
	if em == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op))

	em.updatesTotal.Add(ctx, 1, attrs)
	em.recomputeDuration.Record(ctx, took.Seconds(), attrs)
	em.visibleCommits.Record(ctx, int64(visible))
	em.selectedCommits.Record(ctx, int64(selected))
}

// RecordRejected counts one invalid filter input.
func (em *EngineMetrics) RecordRejected(ctx context.Context, op string) {
	if em == nil {
		return
	}

	em.rejectedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
}

// RecordIngest counts accepted and skipped change log rows.
func (em *EngineMetrics) RecordIngest(ctx context.Context, accepted, skipped int) {
	if em == nil {
		return
	}

	em.rowsTotal.Add(ctx, int64(accepted), metric.WithAttributes(attribute.String(attrStatus, statusAccepted)))
	em.rowsTotal.Add(ctx, int64(skipped), metric.WithAttributes(attribute.String(attrStatus, statusSkipped)))
}
