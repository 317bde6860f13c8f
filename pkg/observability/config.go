// Package observability wires OpenTelemetry tracing and metrics and the
// structured logger shared by every commitplot command.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command (render, stats, export).
	ModeCLI AppMode = "cli"
	// ModeReplay is a gesture script replay.
	ModeReplay AppMode = "replay"
)

const (
	defaultServiceName        = "commitplot"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment, e.g. "dev".
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables
	// export.
	OTLPEndpoint string

	// OTLPHeaders are extra gRPC metadata headers for the exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP connection.
	OTLPInsecure bool

	// DebugTrace forces 100% sampling.
	DebugTrace bool

	// SampleRatio is the trace sampling ratio when DebugTrace is false.
	SampleRatio float64

	// TraceVerbose keeps per-event spans that are dropped by default.
	TraceVerbose bool

	// Prometheus attaches a Prometheus reader whose registry is returned in
	// Providers.Registry.
	Prometheus bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a zero-config CLI setup: no export, info logs.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
