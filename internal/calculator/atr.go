package calculator

import "math"

// DefaultATRWindow is the number of close-to-close deltas averaged by ATRProxy.
const DefaultATRWindow = 14

// ATRProxy approximates the average true range with the mean absolute
// close-to-close change of the last window deltas. Short series use what is
// available; fewer than two finite closes return 0.
func ATRProxy(closes []float64, window int) float64 {
	if window <= 0 {
		window = DefaultATRWindow
	}
	if len(closes) < 2 || !allFinite(closes) {
		return 0
	}
	deltas := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		deltas[i-1] = math.Abs(closes[i] - closes[i-1])
	}
	if window > len(deltas) {
		window = len(deltas)
	}
	atr, _ := CalculateSMA(deltas, window)
	return atr
}

// Momentum returns the last one-period change in percent. It returns NaN when
// the series is too short or the previous close is zero.
func Momentum(closes []float64) float64 {
	n := len(closes)
	if n < 2 || closes[n-2] == 0 {
		return math.NaN()
	}
	return (closes[n-1] - closes[n-2]) / closes[n-2] * 100
}
