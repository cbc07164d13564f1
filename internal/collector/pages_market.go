package collector

import (
	"context"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

const marketChartDays = 30

func (c *Collector) market(ctx context.Context, h model.Header) *model.MarketBoard {
	src := c.opts.Sources
	b := &model.MarketBoard{Header: h, Coins: make([]model.CoinRow, len(c.opts.Coins))}

	ids := make([]string, len(c.opts.Coins))
	for i, coin := range c.opts.Coins {
		ids[i] = coin.ID
	}
	var prices map[string]float64
	charts := make([]model.PriceSeries, len(c.opts.Coins))
	chartErrs := make([]error, len(c.opts.Coins))

	all(
		func() {
			fng, err := src.FearGreed.Latest(ctx)
			if err != nil {
				c.warn("feargreed", "", err)
				b.FNGErr = err.Error()
				return
			}
			b.FearGreed = fng
		},
		func() {
			addr, err := src.Chain.Address(ctx, c.opts.Address)
			if err != nil {
				c.warn("chain", "", err)
				addr.Err = err.Error()
			}
			b.Address = addr
		},
		func() {
			p, err := src.CoinGecko.SimplePrice(ctx, ids)
			if err != nil {
				c.warn("coingecko", "", err)
				return
			}
			prices = p
		},
		func() {
			c.perCoin(func(i int, coin model.Coin) {
				charts[i], chartErrs[i] = src.CoinGecko.MarketChart(ctx, coin.ID, marketChartDays)
				if chartErrs[i] != nil {
					c.warn("coingecko", coin.Symbol, chartErrs[i])
				}
			})
		},
	)

	for i, coin := range c.opts.Coins {
		row := model.CoinRow{Symbol: coin.Symbol, Name: coin.Name, RSI: calculator.NeutralRSI}
		row.Price = prices[coin.ID]
		if row.Price == 0 {
			row.Price = charts[i].CurrentPrice
		}
		if chartErrs[i] != nil {
			row.Err = chartErrs[i].Error()
		} else if rsi, err := calculator.RSI(c.opts.MarketRSI, charts[i].Closes, c.opts.RSIPeriod); err == nil {
			row.RSI = rsi
		}
		row.Zones = calculator.TradeZones(charts[i].Closes, row.Price)
		row.Action = strategy.ActionForRSI(row.RSI)
		row.Zone = strategy.ZoneForRSI(row.RSI)
		b.Coins[i] = row
	}
	return b
}
