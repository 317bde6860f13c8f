package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/commitplot/pkg/observability"
)

func newFilteredProvider(logger *slog.Logger) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), exporter
}

func TestAttributeFilter_AllowsKnownKeys(t *testing.T) {
	t.Parallel()

	tp, exporter := newFilteredProvider(nil)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.Int("linelog.rows", 12),
		attribute.Float64("filter.progress", 42.5),
		attribute.String("error.type", "invalid"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.Equal(t, int64(12), attrs["linelog.rows"])
	assert.InDelta(t, 42.5, attrs["filter.progress"], 1e-9)
	assert.Equal(t, "invalid", attrs["error.type"])
}

func TestAttributeFilter_BlocksPersonalData(t *testing.T) {
	t.Parallel()

	tp, exporter := newFilteredProvider(nil)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("author", "Dallas"),
		attribute.String("author.email", "d@example.com"),
		attribute.String("email", "d@example.com"),
		attribute.String("user.id", "42"),
		attribute.String("free_form", "x"),
		attribute.Int("filter.visible", 3),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.NotContains(t, attrs, "author")
	assert.NotContains(t, attrs, "author.email")
	assert.NotContains(t, attrs, "email")
	assert.NotContains(t, attrs, "user.id")
	assert.NotContains(t, attrs, "free_form")
	assert.Equal(t, int64(3), attrs["filter.visible"])
}

func TestAttributeFilter_WarnsWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	tp, _ := newFilteredProvider(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(attribute.String("user.secret", "val"))
	span.End()

	assert.Contains(t, buf.String(), "user.secret")
	assert.Contains(t, buf.String(), "blocked")
}

// spanAttrMap converts a span's attributes into a map for easy assertion.
func spanAttrMap(s tracetest.SpanStub) map[string]any {
	m := make(map[string]any, len(s.Attributes))
	for _, a := range s.Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}

func TestAttributeFilter_WarnsOncePerKey(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	tp, _ := newFilteredProvider(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	for range 3 {
		_, span := tp.Tracer("test").Start(context.Background(), "op")
		span.SetAttributes(attribute.String("author", "Dallas"))
		span.End()
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "key=author"))
}
