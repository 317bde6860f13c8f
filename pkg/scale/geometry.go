package scale

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when the plot has no drawable area.
var ErrInvalidGeometry = errors.New("plot area must have positive width and height")

// Default plot geometry in pixels.
const (
	DefaultWidth        = 600
	DefaultHeight       = 400
	DefaultMarginTop    = 10
	DefaultMarginRight  = 10
	DefaultMarginBottom = 30
	DefaultMarginLeft   = 40
	DefaultRadiusMin    = 2
	DefaultRadiusMax    = 30
	HoursPerDay         = 24
)

// Margins are the blank bands around the plotting area.
type Margins struct {
	Top    float64 `json:"top" mapstructure:"top" yaml:"top"`
	Right  float64 `json:"right" mapstructure:"right" yaml:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" mapstructure:"left" yaml:"left"`
}

// Geometry describes the plot viewport in local pixel space.
type Geometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// DefaultGeometry returns the 600x400 viewport.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Margins: Margins{
			Top:    DefaultMarginTop,
			Right:  DefaultMarginRight,
			Bottom: DefaultMarginBottom,
			Left:   DefaultMarginLeft,
		},
	}
}

// XRange returns the horizontal pixel interval of the plotting area.
func (g Geometry) XRange() (float64, float64) {
	return g.Margins.Left, g.Width - g.Margins.Right
}

// YRange returns the vertical pixel interval; midnight sits at the top.
func (g Geometry) YRange() (float64, float64) {
	return g.Margins.Top, g.Height - g.Margins.Bottom
}

// Validate checks that the plotting area is not empty.
func (g Geometry) Validate() error {
	x0, x1 := g.XRange()
	y0, y1 := g.YRange()

	if x1 <= x0 || y1 <= y0 {
		return fmt.Errorf("%w: %gx%g with margins %+v", ErrInvalidGeometry, g.Width, g.Height, g.Margins)
	}

	return nil
}
