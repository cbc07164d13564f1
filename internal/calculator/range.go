package calculator

import (
	"errors"
	"math"

	"MarketPulse/internal/model"
)

// zoneFraction is the share of the range covered by each trade zone.
const zoneFraction = 0.2

// CalculateRange returns the high and low of the most recent window closes.
// A window <= 0 scans the whole series.
func CalculateRange(closes []float64, window int) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no closes provided")
	}
	n := len(closes)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if math.IsNaN(closes[i]) || math.IsInf(closes[i], 0) {
			continue
		}
		if closes[i] > high {
			high = closes[i]
		}
		if closes[i] < low {
			low = closes[i]
		}
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return 0, 0, errors.New("no finite closes")
	}
	return high, low, nil
}

// TradeZones derives the buy and sell bands from the close range: the buy
// zone spans the bottom fifth of the range, the sell zone the top fifth.
// Without usable closes every bound is the fallback price.
func TradeZones(closes []float64, fallback float64) model.Zones {
	high, low, err := CalculateRange(closes, 0)
	if err != nil {
		return model.Zones{BuyLow: fallback, BuyHigh: fallback, SellLow: fallback, SellHigh: fallback}
	}
	span := high - low
	return model.Zones{
		BuyLow:   low,
		BuyHigh:  low + span*zoneFraction,
		SellLow:  high - span*zoneFraction,
		SellHigh: high,
	}
}
