package config

import "github.com/Sumatoshi-tech/commitplot/pkg/scale"

// Plot defaults.
const (
	DefaultPlotWidth     = scale.DefaultWidth
	DefaultPlotHeight    = scale.DefaultHeight
	DefaultMarginTop     = scale.DefaultMarginTop
	DefaultMarginRight   = scale.DefaultMarginRight
	DefaultMarginBottom  = scale.DefaultMarginBottom
	DefaultMarginLeft    = scale.DefaultMarginLeft
	DefaultPlotRadiusMin = scale.DefaultRadiusMin
	DefaultPlotRadiusMax = scale.DefaultRadiusMax
	DefaultPlotNice      = true
)

// Ingest defaults.
const (
	DefaultInferTypes = false
)

// Render defaults.
const (
	DefaultTheme = "dark"
	DefaultTitle = "Commit history"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
)
