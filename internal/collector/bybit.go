package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	bybit "github.com/bybit-exchange/bybit.go.api"
)

// Bybit reads linear perpetual market data through the v5 SDK.
type Bybit struct {
	client *bybit.Client
}

// NewBybit returns a Bybit fetcher against base.
func NewBybit(base string, httpClient *http.Client) *Bybit {
	client := bybit.NewBybitHttpClient("", "", bybit.WithBaseURL(base))
	client.HTTPClient = httpClient
	return &Bybit{client: client}
}

type bybitList[T any] struct {
	List []T `json:"list"`
}

type bybitRatio struct {
	BuyRatio  string `json:"buyRatio"`
	SellRatio string `json:"sellRatio"`
	Timestamp string `json:"timestamp"`
}

type bybitFunding struct {
	FundingRate          string `json:"fundingRate"`
	FundingRateTimestamp string `json:"fundingRateTimestamp"`
}

// decodeResult re-encodes the SDK result into out.
func decodeResult(retCode int, retMsg string, result interface{}, out interface{}) error {
	if retCode != 0 {
		return fmt.Errorf("bybit: code %d: %s", retCode, retMsg)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("bybit marshal result: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("bybit decode result: %w", err)
	}
	return nil
}

// AccountRatio returns the long/short account ratio, oldest first.
func (b *Bybit) AccountRatio(ctx context.Context, symbol, period string, limit int) ([]LongShort, error) {
	params := map[string]interface{}{
		"category": "linear",
		"symbol":   symbol,
		"period":   period,
		"limit":    limit,
	}
	resp, err := b.client.NewUtaBybitServiceWithParams(params).GetLongShortRatio(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit account ratio %s: %w", symbol, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("bybit account ratio %s: %w", symbol, ErrNoData)
	}
	var res bybitList[bybitRatio]
	if err := decodeResult(resp.RetCode, resp.RetMsg, resp.Result, &res); err != nil {
		return nil, err
	}
	return accountRatios(res.List)
}

func accountRatios(rows []bybitRatio) ([]LongShort, error) {
	out := make([]LongShort, 0, len(rows))
	for _, r := range rows {
		buy, err1 := strconv.ParseFloat(r.BuyRatio, 64)
		sell, err2 := strconv.ParseFloat(r.SellRatio, 64)
		ts, err3 := strconv.ParseInt(r.Timestamp, 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || sell == 0 {
			continue
		}
		out = append(out, LongShort{Time: time.UnixMilli(ts).UTC(), Ratio: buy / sell, Long: buy * 100, Short: sell * 100})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("bybit account ratio: %w", ErrNoData)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// FundingRate returns the latest settled funding rate.
func (b *Bybit) FundingRate(ctx context.Context, symbol string) (float64, error) {
	params := map[string]interface{}{
		"category": "linear",
		"symbol":   symbol,
		"limit":    1,
	}
	resp, err := b.client.NewUtaBybitServiceWithParams(params).GetFundingRateHistory(ctx)
	if err != nil {
		return 0, fmt.Errorf("bybit funding %s: %w", symbol, err)
	}
	if resp == nil {
		return 0, fmt.Errorf("bybit funding %s: %w", symbol, ErrNoData)
	}
	var res bybitList[bybitFunding]
	if err := decodeResult(resp.RetCode, resp.RetMsg, resp.Result, &res); err != nil {
		return 0, err
	}
	return latestFunding(res.List)
}

func latestFunding(rows []bybitFunding) (float64, error) {
	var best float64
	var bestTS int64 = -1
	for _, r := range rows {
		ts, err := strconv.ParseInt(r.FundingRateTimestamp, 10, 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(r.FundingRate, 64)
		if err != nil {
			continue
		}
		if ts > bestTS {
			best, bestTS = v, ts
		}
	}
	if bestTS < 0 {
		return 0, fmt.Errorf("bybit funding: %w", ErrNoData)
	}
	return best, nil
}
