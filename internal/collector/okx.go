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

	"MarketPulse/internal/model"
)

// OKX reads public swap data.
type OKX struct {
	BaseURL string
	Client  *http.Client
	Router  Router
}

type okxEnvelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (o *OKX) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	var env okxEnvelope
	if err := getJSON(ctx, o.Client, "okx", o.Router.URL("okx", o.BaseURL, path, q), nil, &env); err != nil {
		return err
	}
	if env.Code != "0" {
		return fmt.Errorf("okx %s: code %s: %s", path, env.Code, env.Msg)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("okx %s decode: %w", path, err)
	}
	return nil
}

// LongShortRatio returns the account ratio of a currency, oldest first.
func (o *OKX) LongShortRatio(ctx context.Context, ccy, period string) ([]model.RatioPoint, error) {
	q := url.Values{}
	q.Set("ccy", ccy)
	q.Set("period", period)
	var rows [][]string
	if err := o.get(ctx, "/api/v5/rubik/stat/contracts/long-short-account-ratio", q, &rows); err != nil {
		return nil, err
	}
	type point struct {
		ts    int64
		ratio float64
	}
	pts := make([]point, 0, len(rows))
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		ts, err1 := strconv.ParseInt(r[0], 10, 64)
		v, err2 := strconv.ParseFloat(r[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, point{ts, v})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("okx long/short %s: %w", ccy, ErrNoData)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].ts < pts[j].ts })
	out := make([]model.RatioPoint, len(pts))
	for i, p := range pts {
		out[i] = model.RatioPoint{Time: time.UnixMilli(p.ts).UTC().Format(time.RFC3339), Ratio: p.ratio}
	}
	return out, nil
}

// OpenInterest returns the open interest of a swap in contracts.
func (o *OKX) OpenInterest(ctx context.Context, instID string) (float64, error) {
	q := url.Values{}
	q.Set("instType", "SWAP")
	q.Set("instId", instID)
	var rows []struct {
		OI flexFloat `json:"oi"`
	}
	if err := o.get(ctx, "/api/v5/public/open-interest", q, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("okx open interest %s: %w", instID, ErrNoData)
	}
	return float64(rows[0].OI), nil
}

// FundingRate returns the current funding rate of a swap.
func (o *OKX) FundingRate(ctx context.Context, instID string) (float64, error) {
	q := url.Values{}
	q.Set("instId", instID)
	var rows []struct {
		FundingRate flexFloat `json:"fundingRate"`
	}
	if err := o.get(ctx, "/api/v5/public/funding-rate", q, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("okx funding %s: %w", instID, ErrNoData)
	}
	return float64(rows[0].FundingRate), nil
}
