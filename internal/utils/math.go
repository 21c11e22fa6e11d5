package utils

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp constrains v to the range [minVal, maxVal].
func Clamp[T constraints.Ordered](v, minVal, maxVal T) T {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FiniteRange returns the min and max of the finite values across all series.
// ok is false when no series holds a finite value.
func FiniteRange(series ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, values := range series {
		for _, v := range values {
			if !Finite(v) {
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Rescale maps v linearly from [fromLo, fromHi] onto [toLo, toHi]. A degenerate
// source range maps to the midpoint of the target.
func Rescale(v, fromLo, fromHi, toLo, toHi float64) float64 {
	span := fromHi - fromLo
	if span <= 1e-12 {
		return (toLo + toHi) / 2
	}
	return toLo + (v-fromLo)/span*(toHi-toLo)
}
