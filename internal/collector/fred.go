package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// FRED series used by the macro board.
const (
	SeriesSahm  = "SAHMREALTIME"
	SeriesCurve = "T10Y2Y"
)

// FRED reads the latest observation of economic series.
type FRED struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Latest returns the newest value of series. FRED marks missing values with
// a dot.
func (f *FRED) Latest(ctx context.Context, series string) (float64, error) {
	if f.APIKey == "" {
		return 0, fmt.Errorf("fred: %w", ErrDisabled)
	}
	q := url.Values{}
	q.Set("series_id", series)
	q.Set("api_key", f.APIKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", "1")

	var obs fredObservations
	if err := getJSON(ctx, f.Client, "fred", f.BaseURL+"/fred/series/observations?"+q.Encode(), nil, &obs); err != nil {
		return 0, err
	}
	if len(obs.Observations) == 0 || obs.Observations[0].Value == "." {
		return 0, fmt.Errorf("fred %s: %w", series, ErrNoData)
	}
	v, err := strconv.ParseFloat(obs.Observations[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("fred %s: %w", series, err)
	}
	return v, nil
}
