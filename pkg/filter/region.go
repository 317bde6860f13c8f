package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

const regionFields = 4

// Region is a brushed rectangle in screen coordinates. The zero value is no
// region.
type Region struct {
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Active bool    `json:"active"`
}

// NoRegion clears the brush.
var NoRegion = Region{}

// Rect returns an active region with corners (x0,y0) and (x1,y1).
func Rect(x0, y0, x1, y1 float64) Region {
	return Region{X0: x0, Y0: y0, X1: x1, Y1: y1, Active: true}
}

// ParseRegion reads "x0,y0,x1,y1". An empty string or "none" is NoRegion.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NoRegion, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != regionFields {
		return NoRegion, fmt.Errorf("%w: region %q needs %d comma separated numbers", ErrInvalidFilterInput, s, regionFields)
	}

	var v [regionFields]float64

	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return NoRegion, fmt.Errorf("%w: region %q: %w", ErrInvalidFilterInput, s, err)
		}

		v[i] = f
	}

	r := Rect(v[0], v[1], v[2], v[3])

	return r, r.Validate()
}

// Validate rejects non-finite corners and reversed rectangles. A degenerate
// rectangle (zero width or height) is valid.
func (r Region) Validate() error {
	if !r.Active {
		return nil
	}

	for _, v := range []float64{r.X0, r.Y0, r.X1, r.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: region corner %v is not finite", ErrInvalidFilterInput, v)
		}
	}

	if r.X0 > r.X1 || r.Y0 > r.Y1 {
		return fmt.Errorf("%w: region [%v,%v]-[%v,%v] is reversed", ErrInvalidFilterInput, r.X0, r.Y0, r.X1, r.Y1)
	}

	return nil
}

// Contains reports whether p lies inside r, edges included. No region
// contains nothing.
func (r Region) Contains(p scale.Point) bool {
	if !r.Active {
		return false
	}

	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// String renders r the way ParseRegion reads it.
func (r Region) String() string {
	if !r.Active {
		return "none"
	}

	return strconv.FormatFloat(r.X0, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.Y0, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.X1, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.Y1, 'g', -1, 64)
}
