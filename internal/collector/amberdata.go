package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"MarketPulse/internal/model"
)

const amberdataPlaceholder = "YOUR_AMBERDATA_API_KEY"

// Amberdata reads exchange long/short ratios. It is disabled until a real
// key is configured.
type Amberdata struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Enabled reports whether a usable key is configured.
func (a *Amberdata) Enabled() bool {
	return a != nil && a.APIKey != "" && a.APIKey != amberdataPlaceholder
}

type amberRecord struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Ratio     flexFloat       `json:"ratio"`
}

// LongShortRatio returns the two latest OKX ratios of instrument, oldest
// first.
func (a *Amberdata) LongShortRatio(ctx context.Context, instrument string) ([]model.RatioPoint, error) {
	if !a.Enabled() {
		return nil, fmt.Errorf("amberdata: %w", ErrDisabled)
	}
	q := url.Values{}
	q.Set("exchange", "OKX")
	q.Set("period", "1m")
	q.Set("instrument", instrument)
	q.Set("size", "2")
	h := http.Header{}
	h.Set("x-api-key", a.APIKey)

	body, err := getBody(ctx, a.Client, "amberdata", a.BaseURL+"/markets/futures/long-short-ratio?"+q.Encode(), h)
	if err != nil {
		return nil, err
	}
	records, err := amberRecords(body)
	if err != nil {
		return nil, err
	}
	if len(records) > 2 {
		records = records[len(records)-2:]
	}
	out := make([]model.RatioPoint, len(records))
	for i, r := range records {
		out[i] = model.RatioPoint{Time: amberTime(r.Timestamp), Ratio: float64(r.Ratio)}
	}
	return out, nil
}

// amberRecords accepts a bare array or an object holding records or data.
func amberRecords(body []byte) ([]amberRecord, error) {
	var arr []amberRecord
	if err := json.Unmarshal(body, &arr); err == nil {
		if len(arr) == 0 {
			return nil, fmt.Errorf("amberdata: %w", ErrNoData)
		}
		return arr, nil
	}
	var wrapped struct {
		Records []amberRecord `json:"records"`
		Data    []amberRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("amberdata decode: %w", err)
	}
	recs := wrapped.Records
	if len(recs) == 0 {
		recs = wrapped.Data
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("amberdata: %w", ErrNoData)
	}
	return recs, nil
}

func amberTime(raw json.RawMessage) string {
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC().Format(time.RFC3339)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
