// Package scale maps commit attributes onto plot coordinates: time to x,
// hour of day to y, and line count to radius.
package scale

import (
	"math"
	"time"
)

// Linear maps a continuous domain onto a range. A collapsed domain maps every
// value to the middle of the range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map projects v from the domain onto the range.
func (s Linear) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}

	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Invert projects a range value back onto the domain.
func (s Linear) Invert(px float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return s.D0
	}

	return s.D0 + (px-s.R0)/span*(s.D1-s.D0)
}

// Sqrt maps the square root of the domain linearly onto the range, so the
// area of a circle, not its radius, grows with the value.
type Sqrt struct {
	inner Linear
	D0    float64
	D1    float64
}

// NewSqrt creates a square-root scale over a non-negative domain.
func NewSqrt(d0, d1, r0, r1 float64) Sqrt {
	return Sqrt{
		inner: NewLinear(math.Sqrt(math.Max(d0, 0)), math.Sqrt(math.Max(d1, 0)), r0, r1),
		D0:    d0,
		D1:    d1,
	}
}

// Map projects v onto the range.
func (s Sqrt) Map(v float64) float64 {
	return s.inner.Map(math.Sqrt(math.Max(v, 0)))
}

// Range returns the output interval.
func (s Sqrt) Range() (float64, float64) {
	return s.inner.R0, s.inner.R1
}

// Time maps instants onto a continuous range.
type Time struct {
	Lo, Hi time.Time
	R0, R1 float64
}

// NewTime creates a time scale. lo and hi are swapped if given out of order.
func NewTime(lo, hi time.Time, r0, r1 float64) Time {
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	return Time{Lo: lo, Hi: hi, R0: r0, R1: r1}
}

// Map projects t onto the range.
func (s Time) Map(t time.Time) float64 {
	span := s.Hi.Sub(s.Lo)
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}

	return s.R0 + float64(t.Sub(s.Lo))/float64(span)*(s.R1-s.R0)
}

// Invert projects a range value back to an instant. Values at or beyond the
// range ends return the exact domain ends.
func (s Time) Invert(px float64) time.Time {
	if s.R1 == s.R0 {
		return s.Lo
	}

	frac := (px - s.R0) / (s.R1 - s.R0)

	switch {
	case frac <= 0:
		return s.Lo
	case frac >= 1:
		return s.Hi
	}

	offset := time.Duration(math.Round(frac * float64(s.Hi.Sub(s.Lo))))

	return s.Lo.Add(offset)
}

// Nice widens the domain outward to whole UTC days.
func (s Time) Nice() Time {
	lo := s.Lo.UTC().Truncate(24 * time.Hour)

	hi := s.Hi.UTC().Truncate(24 * time.Hour)
	if hi.Before(s.Hi) {
		hi = hi.Add(24 * time.Hour)
	}

	return Time{Lo: lo, Hi: hi, R0: s.R0, R1: s.R1}
}

// Progress is the slider scale: the commit time span mapped onto [0,100].
type Progress struct {
	Time
}

// Slider bounds.
const (
	ProgressMin = 0
	ProgressMax = 100
)

// NewProgress creates a slider scale over [earliest, latest].
func NewProgress(earliest, latest time.Time) Progress {
	return Progress{Time: NewTime(earliest, latest, ProgressMin, ProgressMax)}
}

// Threshold returns the instant selected by slider position p.
func (p Progress) Threshold(v float64) time.Time {
	return p.Invert(v)
}
