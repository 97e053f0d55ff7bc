// Package phi holds the numeric constants and rounding helpers shared by the
// golden analyzers.
//
// Rounding is part of the output contract: every published score is rounded
// half-up to a fixed number of decimals so that two runs (or two
// implementations) agree on every representable decimal.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.618033988749895

// InvPhi is 1/φ (≈0.618).
const InvPhi = 1 / Phi

// Fibonacci is the weight table used for lengths, access counts and levels.
var Fibonacci = [...]float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987}

// Fib returns the Fibonacci weight for a 1-based index. Indexes below 1 map to
// the first element and indexes past the table map to the last one.
func Fib(n int) float64 {
	i := n - 1
	if i < 0 {
		i = 0
	}
	if i >= len(Fibonacci) {
		i = len(Fibonacci) - 1
	}
	return Fibonacci[i]
}

// Round4 rounds half-up to four decimals.
func Round4(v float64) float64 { return roundTo(v, 1e4) }

// Round3 rounds half-up to three decimals.
func Round3(v float64) float64 { return roundTo(v, 1e3) }

func roundTo(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v*scale+0.5) / scale
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pow returns φ^exp.
func Pow(exp float64) float64 {
	return math.Pow(Phi, exp)
}

// Alignment scores how closely ratio approaches φ, in [0,1].
func Alignment(ratio float64) float64 {
	return math.Max(0, 1-math.Abs(ratio-Phi))
}
