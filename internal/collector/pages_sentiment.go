package collector

import (
	"context"

	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

func (c *Collector) sentiment(ctx context.Context, h model.Header) *model.SentimentBoard {
	src := c.opts.Sources
	b := &model.SentimentBoard{Header: h, Rows: make([]model.SentimentRow, len(c.opts.Coins))}

	c.perCoin(func(i int, coin model.Coin) {
		row := model.SentimentRow{Symbol: coin.Symbol}
		funding := []model.FundingRate{model.NoRate("binance"), model.NoRate("okx"), model.NoRate("bybit")}
		var ratios []LongShort
		var ratioErr error

		all(
			func() {
				ratios, ratioErr = src.Binance.GlobalLongShort(ctx, coin.Binance, ratioPeriod, 2)
				if ratioErr != nil {
					c.warn("binance", coin.Symbol, ratioErr)
				}
			},
			func() {
				if r, err := src.Binance.FundingRate(ctx, coin.Binance); err != nil {
					c.warn("binance", coin.Symbol, err)
				} else {
					funding[0] = model.Rate("binance", r)
				}
			},
			func() {
				if r, err := src.OKX.FundingRate(ctx, coin.OKX); err != nil {
					c.warn("okx", coin.Symbol, err)
				} else {
					funding[1] = model.Rate("okx", r)
				}
			},
			func() {
				if r, err := src.Bybit.FundingRate(ctx, coin.Bybit); err != nil {
					c.warn("bybit", coin.Symbol, err)
				} else {
					funding[2] = model.Rate("bybit", r)
				}
			},
		)

		row.Funding = funding
		if ratioErr != nil {
			row.Err = ratioErr.Error()
			b.Rows[i] = row
			return
		}
		row.Ratio = ratios[len(ratios)-1].Ratio
		row.PrevRatio = row.Ratio
		if len(ratios) > 1 {
			row.PrevRatio = ratios[len(ratios)-2].Ratio
		}
		in := model.IndicatorInputs{Symbol: coin.Symbol, Ratio: row.Ratio, PrevRatio: row.PrevRatio, Funding: funding}
		row.Score, row.ScoreOK = strategy.SentimentScore(in, c.opts.FundingPolicy)
		row.ScoreZeroFill, _ = strategy.SentimentScore(in, strategy.ZeroWhenMissing)
		row.TickChange = c.opts.Tracker.Observe("sentiment:ratio:"+coin.Symbol, h.Seq, row.Ratio).Diff
		b.Rows[i] = row
	})
	return b
}
