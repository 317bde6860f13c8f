// Package config loads commitplot settings from defaults, a YAML file and
// COMMITPLOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/observability"
	"github.com/Sumatoshi-tech/commitplot/pkg/plotpage"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

// Sentinel validation errors.
var (
	ErrInvalidRadius      = errors.New("radius range must satisfy 0 <= min <= max")
	ErrInvalidLogFormat   = errors.New("logging format must be text or json")
	ErrInvalidSampleRatio = errors.New("telemetry sample ratio must be within [0,1]")
	ErrInvalidURLTemplate = errors.New("repository url template must be an http(s) URL")
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all commitplot configuration.
type Config struct {
	Plot       PlotConfig       `mapstructure:"plot" yaml:"plot"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Ingest     IngestConfig     `mapstructure:"ingest" yaml:"ingest"`
	Render     RenderConfig     `mapstructure:"render" yaml:"render"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" yaml:"telemetry"`
}

// PlotConfig is the plot viewport and circle sizing.
type PlotConfig struct {
	Width     float64       `mapstructure:"width" yaml:"width"`
	Height    float64       `mapstructure:"height" yaml:"height"`
	Margins   scale.Margins `mapstructure:"margins" yaml:"margins"`
	RadiusMin float64       `mapstructure:"radius_min" yaml:"radius_min"`
	RadiusMax float64       `mapstructure:"radius_max" yaml:"radius_max"`
	Nice      bool          `mapstructure:"nice" yaml:"nice"`
}

// RepositoryConfig describes the repository the log was taken from.
type RepositoryConfig struct {
	// URLTemplate links commits; "{id}" is replaced by the commit hash.
	URLTemplate string `mapstructure:"url_template" yaml:"url_template"`
}

// IngestConfig controls change log parsing.
type IngestConfig struct {
	InferTypes bool `mapstructure:"infer_types" yaml:"infer_types"`
}

// RenderConfig controls the HTML dashboard.
type RenderConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
	Title string `mapstructure:"title" yaml:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings. OTLPHeaders is
// "key=value,key=value" gRPC metadata sent with every export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure" yaml:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers" yaml:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
	Environment  string  `mapstructure:"environment" yaml:"environment"`
}

// Geometry returns the plot viewport.
func (c *Config) Geometry() scale.Geometry {
	return scale.Geometry{
		Width:   c.Plot.Width,
		Height:  c.Plot.Height,
		Margins: c.Plot.Margins,
	}
}

// Coordinator returns a scale coordinator for the configured plot.
func (c *Config) Coordinator() *scale.Coordinator {
	coord := scale.NewCoordinator(c.Geometry())
	coord.RadiusMin = c.Plot.RadiusMin
	coord.RadiusMax = c.Plot.RadiusMax
	coord.Nice = c.Plot.Nice

	return coord
}

// URLs returns the commit link builder.
func (c *Config) URLs() commits.URLBuilder {
	return commits.TemplateURL(c.Repository.URLTemplate)
}

// Theme returns the parsed dashboard theme.
func (c *Config) Theme() (plotpage.Theme, error) {
	return plotpage.ParseTheme(c.Render.Theme)
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() (slog.Level, error) {
	return observability.ParseLevel(c.Logging.Level)
}

// Observability maps the logging and telemetry sections onto an
// observability configuration.
func (c *Config) Observability() (observability.Config, error) {
	level, err := c.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obs := observability.DefaultConfig()
	obs.LogLevel = level
	obs.LogJSON = c.Logging.Format == LogFormatJSON
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.Environment = c.Telemetry.Environment

	return obs, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return err
	}

	if c.Plot.RadiusMin < 0 || c.Plot.RadiusMax < c.Plot.RadiusMin {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRadius, c.Plot.RadiusMin, c.Plot.RadiusMax)
	}

	if u := c.Repository.URLTemplate; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidURLTemplate, u)
	}

	if _, err := c.Theme(); err != nil {
		return err
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if r := c.Telemetry.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, r)
	}

	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return out, nil
}
