package collector

import (
	"context"
	"math"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

const (
	biasKlineInterval = "1d"
	biasKlineLimit    = 30
)

func (c *Collector) bias(ctx context.Context, h model.Header) *model.BiasBoard {
	src := c.opts.Sources
	b := &model.BiasBoard{Header: h, Rows: make([]model.BiasRow, len(c.opts.Coins))}

	c.perCoin(func(i int, coin model.Coin) {
		row := model.BiasRow{Symbol: coin.Symbol, RSI: calculator.NeutralRSI, Momentum: math.NaN(), Long: math.NaN(), Short: math.NaN()}
		var bars []model.OHLCV
		var barsErr error
		oiDelta := math.NaN()

		all(
			func() {
				bars, barsErr = src.Binance.Klines(ctx, coin.Binance, biasKlineInterval, biasKlineLimit)
				if barsErr != nil {
					c.warn("binance", coin.Symbol, barsErr)
				}
			},
			func() {
				ls, err := src.Binance.GlobalLongShort(ctx, coin.Binance, ratioPeriod, 1)
				if err != nil {
					c.warn("binance", coin.Symbol, err)
					return
				}
				last := ls[len(ls)-1]
				row.Long, row.Short = last.Long, last.Short
			},
			func() {
				oiDelta = c.openInterestDelta(ctx, coin, h.Seq)
			},
		)

		if barsErr != nil {
			row.Err = barsErr.Error()
		} else {
			closes := calculator.Closes(bars)
			row.Price = closes[len(closes)-1]
			if rsi, err := calculator.RSI(c.opts.BiasRSI, closes, c.opts.RSIPeriod); err == nil {
				row.RSI = rsi
			}
			row.Momentum = calculator.Momentum(closes)
			row.ATR = calculator.ATRProxy(closes, calculator.DefaultATRWindow)
		}
		row.OIDelta = oiDelta
		row.Bias = strategy.EvaluateBias(strategy.BiasInputs{
			RSI:      row.RSI,
			Momentum: row.Momentum,
			Long:     row.Long,
			Short:    row.Short,
			OIDelta:  oiDelta,
			Price:    row.Price,
			ATR:      row.ATR,
		})
		row.Momentum = zeroNaN(row.Momentum)
		row.Long = zeroNaN(row.Long)
		row.Short = zeroNaN(row.Short)
		row.OIDelta = zeroNaN(row.OIDelta)
		b.Rows[i] = row
	})
	return b
}

// openInterestDelta compares the current open interest with the previous
// tick. On the first tick the delta comes from the last two hourly history
// points. When Binance fails OKX open interest is tracked instead, under its
// own key since the venues count contracts differently. NaN means unknown.
func (c *Collector) openInterestDelta(ctx context.Context, coin model.Coin, seq uint64) float64 {
	src := c.opts.Sources
	oi, err := src.Binance.OpenInterest(ctx, coin.Binance)
	if err != nil {
		c.warn("binance", coin.Symbol, err)
		okx, okxErr := src.OKX.OpenInterest(ctx, coin.OKX)
		if okxErr != nil {
			c.warn("okx", coin.Symbol, okxErr)
			return math.NaN()
		}
		return c.opts.Tracker.Observe("bias:oi:okx:"+coin.Symbol, seq, okx).Diff
	}
	obs := c.opts.Tracker.Observe("bias:oi:"+coin.Symbol, seq, oi)
	switch {
	case obs.Stale:
		return 0
	case obs.HasPrev:
		return obs.Diff
	}
	hist, err := src.Binance.OpenInterestHist(ctx, coin.Binance, "1h", 2)
	if err != nil || len(hist) < 2 {
		if err != nil {
			c.warn("binance", coin.Symbol, err)
		}
		return 0
	}
	return hist[len(hist)-1] - hist[len(hist)-2]
}

// zeroNaN keeps unknown readings JSON-encodable.
func zeroNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
