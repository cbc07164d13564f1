package collector

import (
	"context"

	"MarketPulse/internal/model"
)

const ratioPeriod = "5m"

func (c *Collector) ratios(ctx context.Context, h model.Header) *model.RatioBoard {
	src := c.opts.Sources
	pairs := make([][2]model.RatioRow, len(c.opts.Coins))

	c.perCoin(func(i int, coin model.Coin) {
		all(
			func() {
				row := model.RatioRow{Symbol: coin.Symbol, Venue: "binance"}
				pts, err := src.Binance.TopPositionRatio(ctx, coin.Binance, ratioPeriod, 2)
				if err != nil {
					c.warn("binance", coin.Symbol, err)
					row.Err = err.Error()
				} else {
					row.Ratio, row.Change = latestChange(pts)
				}
				pairs[i][0] = row
			},
			func() {
				row := model.RatioRow{Symbol: coin.Symbol, Venue: "okx"}
				pts, source, err := c.okxRatio(ctx, coin)
				if err != nil {
					c.warn(source, coin.Symbol, err)
					row.Err = err.Error()
				} else {
					row.Ratio, row.Change = latestChange(pts)
				}
				pairs[i][1] = row
			},
		)
	})

	b := &model.RatioBoard{Header: h, Rows: make([]model.RatioRow, 0, 2*len(pairs))}
	for _, p := range pairs {
		b.Rows = append(b.Rows, p[0], p[1])
	}
	return b
}

// okxRatio prefers Amberdata when a key is configured.
func (c *Collector) okxRatio(ctx context.Context, coin model.Coin) ([]model.RatioPoint, string, error) {
	src := c.opts.Sources
	if src.Amberdata.Enabled() {
		pts, err := src.Amberdata.LongShortRatio(ctx, coin.OKX)
		return pts, "amberdata", err
	}
	pts, err := src.OKX.LongShortRatio(ctx, coin.Symbol, ratioPeriod)
	return pts, "okx", err
}

// latestChange returns the newest ratio and its change from the point before.
// A single point has no change.
func latestChange(pts []model.RatioPoint) (ratio, change float64) {
	n := len(pts)
	if n == 0 {
		return 0, 0
	}
	ratio = pts[n-1].Ratio
	if n > 1 {
		change = ratio - pts[n-2].Ratio
	}
	return ratio, change
}
