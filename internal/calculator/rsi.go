package calculator

import (
	"errors"
	"fmt"
	"math"
)

// NeutralRSI is returned whenever the series cannot support an RSI reading.
const NeutralRSI = 50.0

// RSIMethod selects the smoothing used for RSI.
type RSIMethod string

const (
	// RSISimple averages the last period deltas with a plain window.
	RSISimple RSIMethod = "simple"
	// RSIWilder seeds with a window average and then applies Wilder smoothing.
	RSIWilder RSIMethod = "wilder"
)

// ParseRSIMethod validates a configured method name.
func ParseRSIMethod(s string) (RSIMethod, error) {
	switch RSIMethod(s) {
	case RSISimple, RSIWilder:
		return RSIMethod(s), nil
	}
	return "", fmt.Errorf("unknown rsi method %q", s)
}

// RSI dispatches to the named smoothing method.
func RSI(method RSIMethod, prices []float64, period int) (float64, error) {
	switch method {
	case RSIWilder:
		return WilderRSI(prices, period)
	case RSISimple, "":
		return SimpleRSI(prices, period)
	}
	return NeutralRSI, fmt.Errorf("unknown rsi method %q", method)
}

// SimpleRSI computes RSI from plain averages of the last period deltas.
// A flat window returns 50. Requires at least period+1 prices.
func SimpleRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 || !allFinite(prices) {
		return NeutralRSI, nil
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	switch {
	case avgLoss == 0 && avgGain > 0:
		return 100, nil
	case avgGain == 0 && avgLoss > 0:
		return 0, nil
	case avgLoss > 0:
		return 100 - 100/(1+avgGain/avgLoss), nil
	}
	return NeutralRSI, nil
}

// WilderRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 prices. Returns 50.0 if data is insufficient.
func WilderRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 || !allFinite(prices) {
		return NeutralRSI, nil
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
