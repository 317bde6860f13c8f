// Package stats provides the small numeric helpers shared by the scales and
// the statistics engine.
package stats

import (
	"cmp"
	"math"
)

// Mean returns the arithmetic mean of values. ok is false for an empty slice,
// so callers never see NaN.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sum float64

	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), true
}

// Extent returns the smallest and largest value of key over items.
// ok is false for an empty slice.
func Extent[T any, K cmp.Ordered](items []T, key func(T) K) (lo, hi K, ok bool) {
	if len(items) == 0 {
		return lo, hi, false
	}

	lo = key(items[0])
	hi = lo

	for _, item := range items[1:] {
		v := key(item)
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return lo, hi, true
}

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)

	return math.Round(v*scale) / scale
}

// Lerp maps t in [0,1] onto [a, b].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
