package calculator

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation, or NaN below two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// Quantile returns the q-quantile (0..1) with linear interpolation between
// order statistics. NaN values are ignored.
func Quantile(xs []float64, q float64) float64 {
	sorted := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			sorted = append(sorted, x)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Winsorize clips xs to its lo and hi quantiles.
func Winsorize(xs []float64, lo, hi float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	floor := Quantile(xs, lo)
	ceil := Quantile(xs, hi)
	for i, x := range xs {
		switch {
		case x < floor:
			out[i] = floor
		case x > ceil:
			out[i] = ceil
		default:
			out[i] = x
		}
	}
	return out
}

// RollingZ returns the z-score of every value against the trailing window of
// n values ending at it. Positions without a full window, or with zero
// dispersion, are NaN.
func RollingZ(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if n < 2 || i+1 < n {
			out[i] = math.NaN()
			continue
		}
		window := xs[i+1-n : i+1]
		sd := StdDev(window)
		if sd == 0 || math.IsNaN(sd) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (xs[i] - Mean(window)) / sd
	}
	return out
}

// Diff returns consecutive differences; the result is one shorter than xs.
func Diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

// LogReturns returns log(x[i]/x[i-1]); non-positive prices yield NaN.
func LogReturns(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		if xs[i] <= 0 || xs[i-1] <= 0 {
			out[i-1] = math.NaN()
			continue
		}
		out[i-1] = math.Log(xs[i] / xs[i-1])
	}
	return out
}
