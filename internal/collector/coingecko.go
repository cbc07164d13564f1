package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/model"
)

// CoinGecko reads spot prices and daily history.
type CoinGecko struct {
	BaseURL string
	Client  *http.Client
}

// SimplePrice returns the USD price of every id that the upstream knows.
func (c *CoinGecko) SimplePrice(ctx context.Context, ids []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	var raw map[string]map[string]float64
	if err := getJSON(ctx, c.Client, "coingecko", c.BaseURL+"/api/v3/simple/price?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for id, m := range raw {
		if p, ok := m["usd"]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type marketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// MarketChart returns the daily USD closes of id over the last days.
func (c *CoinGecko) MarketChart(ctx context.Context, id string, days int) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")
	u := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?%s", c.BaseURL, url.PathEscape(id), q.Encode())

	var chart marketChart
	if err := getJSON(ctx, c.Client, "coingecko", u, nil, &chart); err != nil {
		return model.PriceSeries{}, err
	}
	if len(chart.Prices) == 0 {
		return model.PriceSeries{}, fmt.Errorf("coingecko %s: %w", id, ErrNoData)
	}
	s := model.PriceSeries{Symbol: id, FetchedAt: time.Now()}
	for _, p := range chart.Prices {
		s.Times = append(s.Times, time.UnixMilli(int64(p[0])).UTC())
		s.Closes = append(s.Closes, p[1])
	}
	s.CurrentPrice = s.Closes[len(s.Closes)-1]
	return s, nil
}
