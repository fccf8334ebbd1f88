// Package engine holds the three pure computation stages: forecast
// generation, action derivation and impact simulation. Nothing here keeps
// state between calls or mutates its inputs.
package engine

import "math"

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// round rounds half up, so 2.5 -> 3 and -2.5 -> -2.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
