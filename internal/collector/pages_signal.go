package collector

import (
	"context"

	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

const (
	signalInterval = "1h"
	signalLimit    = 200
)

func (c *Collector) signal(ctx context.Context, h model.Header) *model.SignalBoard {
	src := c.opts.Sources
	b := &model.SignalBoard{Header: h, Rows: make([]model.SignalRow, len(c.opts.Coins))}

	c.perCoin(func(i int, coin model.Coin) {
		row := model.SignalRow{Symbol: coin.Symbol, Signal: model.SignalResult{Direction: model.DirectionNeutral}}
		var bars []model.OHLCV
		var ratios []LongShort
		var barsErr, ratioErr error

		all(
			func() {
				bars, barsErr = src.Binance.Klines(ctx, coin.Binance, signalInterval, signalLimit)
			},
			func() {
				ratios, ratioErr = src.Binance.GlobalLongShort(ctx, coin.Binance, signalInterval, signalLimit)
			},
		)
		for _, err := range []error{barsErr, ratioErr} {
			if err != nil {
				c.warn("binance", coin.Symbol, err)
				row.Err = err.Error()
			}
		}
		if row.Err == "" {
			row.Signal = strategy.ComputeLSRSignal(alignLSR(bars, ratios), c.opts.Signal)
		}
		b.Rows[i] = row
	})
	return b
}

// alignLSR pairs every bar with the latest ratio reading at or before its
// open time. Bars older than the first ratio are dropped.
func alignLSR(bars []model.OHLCV, ratios []LongShort) strategy.LSRSeries {
	var s strategy.LSRSeries
	j := -1
	for _, bar := range bars {
		for j+1 < len(ratios) && !ratios[j+1].Time.After(bar.Time) {
			j++
		}
		if j < 0 {
			continue
		}
		s.Closes = append(s.Closes, bar.Close)
		s.Volumes = append(s.Volumes, bar.Volume)
		s.LSR = append(s.LSR, ratios[j].Ratio)
	}
	return s
}
