package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"MarketPulse/internal/model"
)

// LongShort is one account ratio reading with the long and short shares in
// percent.
type LongShort struct {
	Time  time.Time
	Ratio float64
	Long  float64
	Short float64
}

// Binance reads USDⓈ-M futures data. Trading endpoints go through the SDK;
// the futures data endpoints go through the router so they can use the relay.
type Binance struct {
	client  *futures.Client
	baseURL string
	http    *http.Client
	router  Router
}

// NewBinance returns a Binance fetcher against base.
func NewBinance(base string, httpClient *http.Client, router Router) *Binance {
	client := futures.NewClient("", "")
	client.HTTPClient = httpClient
	client.SetApiEndpoint(base)
	return &Binance{client: client, baseURL: base, http: httpClient, router: router}
}

// FundingRate returns the latest settled funding rate.
func (b *Binance) FundingRate(ctx context.Context, symbol string) (float64, error) {
	rates, err := b.client.NewFundingRateService().Symbol(symbol).Limit(1).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("binance funding %s: %w", symbol, err)
	}
	if len(rates) == 0 {
		return 0, fmt.Errorf("binance funding %s: %w", symbol, ErrNoData)
	}
	return parseFloat(rates[len(rates)-1].FundingRate)
}

// OpenInterest returns the current open interest in contracts.
func (b *Binance) OpenInterest(ctx context.Context, symbol string) (float64, error) {
	oi, err := b.client.NewGetOpenInterestService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("binance open interest %s: %w", symbol, err)
	}
	return parseFloat(oi.OpenInterest)
}

// GlobalLongShort returns the global account ratio, oldest first.
func (b *Binance) GlobalLongShort(ctx context.Context, symbol, period string, limit int) ([]LongShort, error) {
	rows, err := b.client.NewLongShortRatioService().Symbol(symbol).Period(period).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance long/short %s: %w", symbol, err)
	}
	out := make([]LongShort, 0, len(rows))
	for _, r := range rows {
		ratio, err1 := parseFloat(r.LongShortRatio)
		long, err2 := parseFloat(r.LongAccount)
		short, err3 := parseFloat(r.ShortAccount)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		out = append(out, LongShort{Time: time.UnixMilli(r.Timestamp).UTC(), Ratio: ratio, Long: long * 100, Short: short * 100})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("binance long/short %s: %w", symbol, ErrNoData)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// Klines returns candles, oldest first.
func (b *Binance) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	kl, err := b.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}
	bars := make([]model.OHLCV, 0, len(kl))
	for _, k := range kl {
		bar, err := klineToOHLCV(k)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, ErrNoData)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func klineToOHLCV(k *futures.Kline) (model.OHLCV, error) {
	var bar model.OHLCV
	var err error
	bar.Time = time.UnixMilli(k.OpenTime).UTC()
	for _, f := range []struct {
		dst *float64
		src string
	}{{&bar.Open, k.Open}, {&bar.High, k.High}, {&bar.Low, k.Low}, {&bar.Close, k.Close}, {&bar.Volume, k.Volume}} {
		if *f.dst, err = parseFloat(f.src); err != nil {
			return model.OHLCV{}, err
		}
	}
	return bar, nil
}

type ratioRow struct {
	Symbol         string `json:"symbol"`
	LongShortRatio string `json:"longShortRatio"`
	LongAccount    string `json:"longAccount"`
	ShortAccount   string `json:"shortAccount"`
	Timestamp      int64  `json:"timestamp"`
}

// TopPositionRatio returns the top trader position ratio, oldest first.
func (b *Binance) TopPositionRatio(ctx context.Context, symbol, period string, limit int) ([]model.RatioPoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period", period)
	q.Set("limit", strconv.Itoa(limit))
	u := b.router.URL("binance", b.baseURL, "/futures/data/topLongShortPositionRatio", q)

	var rows []ratioRow
	if err := getJSON(ctx, b.http, "binance", u, nil, &rows); err != nil {
		return nil, err
	}
	return ratioPoints(rows)
}

type oiHistRow struct {
	SumOpenInterest string `json:"sumOpenInterest"`
	Timestamp       int64  `json:"timestamp"`
}

// OpenInterestHist returns historical open interest in contracts, oldest
// first.
func (b *Binance) OpenInterestHist(ctx context.Context, symbol, period string, limit int) ([]float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period", period)
	q.Set("limit", strconv.Itoa(limit))
	u := b.router.URL("binance", b.baseURL, "/futures/data/openInterestHist", q)

	var rows []oiHistRow
	if err := getJSON(ctx, b.http, "binance", u, nil, &rows); err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, err := parseFloat(r.SumOpenInterest); err == nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("binance open interest hist %s: %w", symbol, ErrNoData)
	}
	return out, nil
}

func ratioPoints(rows []ratioRow) ([]model.RatioPoint, error) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })
	out := make([]model.RatioPoint, 0, len(rows))
	for _, r := range rows {
		v, err := parseFloat(r.LongShortRatio)
		if err != nil {
			continue
		}
		out = append(out, model.RatioPoint{Time: time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339), Ratio: v})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("binance ratio: %w", ErrNoData)
	}
	return out, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
