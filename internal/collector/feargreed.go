package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"MarketPulse/internal/model"
)

// FearGreed reads the alternative.me index.
type FearGreed struct {
	BaseURL string
	Client  *http.Client
}

type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

// Latest returns the newest reading.
func (f *FearGreed) Latest(ctx context.Context) (*model.FearGreed, error) {
	var resp fngResponse
	if err := getJSON(ctx, f.Client, "feargreed", f.BaseURL+"/fng/?limit=1", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("feargreed: %w", ErrNoData)
	}
	d := resp.Data[0]
	v, err := strconv.Atoi(d.Value)
	if err != nil {
		return nil, fmt.Errorf("feargreed value %q: %w", d.Value, err)
	}
	ts, err := strconv.ParseInt(d.Timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("feargreed timestamp %q: %w", d.Timestamp, err)
	}
	return &model.FearGreed{Value: v, Classification: d.Classification, UpdatedAt: time.Unix(ts, 0).UTC()}, nil
}
