package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ErrNoRegistry is returned by WriteTextfile when Prometheus was not enabled.
var ErrNoRegistry = errors.New("prometheus registry not configured")

// newPrometheusReader returns a private registry and the OTel reader that
// feeds it. A private registry keeps repeated Init calls from colliding.
func newPrometheusReader() (*prometheus.Registry, sdkmetric.Reader, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return registry, exporter, nil
}

// WriteTextfile writes every metric in reg to path in the Prometheus text
// exposition format, for the node_exporter textfile collector. It must run
// before Providers.Shutdown.
func WriteTextfile(path string, reg *prometheus.Registry) error {
	if reg == nil {
		return ErrNoRegistry
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
