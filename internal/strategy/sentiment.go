package strategy

import (
	"fmt"
	"math"

	"MarketPulse/internal/model"
)

// Sentiment weights and the funding scale.
const (
	sentimentLevelWeight   = 0.4
	sentimentChangeWeight  = 0.3
	sentimentFundingWeight = 0.3
	fundingScale           = 10000
)

// Largest and smallest float64 inside the open score interval.
var (
	scoreCeil  = math.Nextafter(1, 0)
	scoreFloor = math.Nextafter(-1, 0)
)

// FundingPolicy decides how missing venues enter the funding average.
type FundingPolicy string

const (
	// ExcludeMissing averages the venues with data. With no data at all the
	// score is unavailable.
	ExcludeMissing FundingPolicy = "exclude_missing"
	// ZeroWhenMissing averages the venues with data and uses 0 when none has.
	ZeroWhenMissing FundingPolicy = "zero_when_missing"
)

// ParseFundingPolicy validates a configured policy name.
func ParseFundingPolicy(s string) (FundingPolicy, error) {
	switch FundingPolicy(s) {
	case ExcludeMissing, ZeroWhenMissing:
		return FundingPolicy(s), nil
	}
	return "", fmt.Errorf("unknown funding policy %q", s)
}

// AverageFunding averages the present, finite rates. ok is false only under
// ExcludeMissing when no venue has data.
func AverageFunding(rates []model.FundingRate, policy FundingPolicy) (avg float64, ok bool) {
	sum, n := 0.0, 0
	for _, r := range rates {
		if !r.OK || !finite(r.Rate) {
			continue
		}
		sum += r.Rate
		n++
	}
	if n > 0 {
		return sum / float64(n), true
	}
	if policy == ZeroWhenMissing {
		return 0, true
	}
	return 0, false
}

// SentimentScore is 0.4*tanh(ratio-1) + 0.3*tanh(ratio-prev) +
// 0.3*tanh(avgFunding*10000). The result lies in (-1, 1). ok is false, with a
// score of 0, when the ratios are not finite or the policy leaves no funding
// average.
func SentimentScore(in model.IndicatorInputs, policy FundingPolicy) (float64, bool) {
	if !finite(in.Ratio, in.PrevRatio) {
		return 0, false
	}
	avg, ok := AverageFunding(in.Funding, policy)
	if !ok {
		return 0, false
	}
	score := sentimentLevelWeight*math.Tanh(in.Ratio-1) +
		sentimentChangeWeight*math.Tanh(in.Ratio-in.PrevRatio) +
		sentimentFundingWeight*math.Tanh(avg*fundingScale)
	// Every tanh term saturates to exactly ±1 in float64.
	return math.Max(scoreFloor, math.Min(scoreCeil, score)), true
}
