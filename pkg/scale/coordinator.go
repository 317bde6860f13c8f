package scale

import (
	"time"

	"github.com/Sumatoshi-tech/commitplot/pkg/alg/stats"
	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
)

// Point is a commit's screen position and circle radius.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Set holds the three scales fitted to one visible commit set. When Empty is
// true the time domain is undefined and no point may be placed.
type Set struct {
	X     Time   `json:"x"`
	Y     Linear `json:"y"`
	R     Sqrt   `json:"-"`
	Empty bool   `json:"empty"`
}

// Position places c on the plot. ok is false when the set is empty.
func (s Set) Position(c commits.Summary) (Point, bool) {
	if s.Empty {
		return Point{}, false
	}

	return Point{
		X: s.X.Map(c.Datetime),
		Y: s.Y.Map(c.HourFrac),
		R: s.R.Map(float64(c.TotalLines)),
	}, true
}

// Coordinator derives scales from the visible commits.
type Coordinator struct {
	Geometry  Geometry
	RadiusMin float64
	RadiusMax float64
	Nice      bool
}

// NewCoordinator returns a coordinator with the default radius range and a
// niced time axis.
func NewCoordinator(g Geometry) *Coordinator {
	return &Coordinator{
		Geometry:  g,
		RadiusMin: DefaultRadiusMin,
		RadiusMax: DefaultRadiusMax,
		Nice:      true,
	}
}

// Fit builds the scales for visible. It never fails: an empty input yields an
// empty Set with a collapsed time domain and the fallback radius domain [0,1].
func (c *Coordinator) Fit(visible []commits.Summary) Set {
	x0, x1 := c.Geometry.XRange()
	y0, y1 := c.Geometry.YRange()

	set := Set{
		Y: NewLinear(0, HoursPerDay, y0, y1),
	}

	lo, hi, ok := stats.Extent(visible, func(s commits.Summary) int64 { return s.Datetime.UnixNano() })
	if !ok {
		set.Empty = true
		set.X = NewTime(time.Time{}, time.Time{}, x0, x1)
		set.R = NewSqrt(0, 1, c.RadiusMin, c.RadiusMax)

		return set
	}

	set.X = NewTime(time.Unix(0, lo).UTC(), time.Unix(0, hi).UTC(), x0, x1)
	if c.Nice {
		set.X = set.X.Nice()
	}

	minLines, maxLines, _ := stats.Extent(visible, func(s commits.Summary) int { return s.TotalLines })
	set.R = NewSqrt(float64(minLines), float64(maxLines), c.RadiusMin, c.RadiusMax)

	return set
}
