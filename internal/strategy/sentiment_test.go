package strategy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

func TestSentimentScore_Formula(t *testing.T) {
	in := model.IndicatorInputs{
		Symbol:    "BTC",
		Ratio:     1.2,
		PrevRatio: 1.1,
		Funding:   []model.FundingRate{model.Rate("binance", 0.0001), model.NoRate("okx"), model.Rate("bybit", 0.0003)},
	}
	want := 0.4*math.Tanh(0.2) + 0.3*math.Tanh(0.1) + 0.3*math.Tanh(2)

	for _, p := range []FundingPolicy{ExcludeMissing, ZeroWhenMissing} {
		got, ok := SentimentScore(in, p)
		require.True(t, ok, p)
		assert.InDelta(t, want, got, 1e-12, p)
	}
}

func TestSentimentScore_NoFundingDiffersByPolicy(t *testing.T) {
	in := model.IndicatorInputs{Ratio: 1.5, PrevRatio: 1.5, Funding: []model.FundingRate{model.NoRate("binance"), model.NoRate("okx")}}

	got, ok := SentimentScore(in, ExcludeMissing)
	assert.False(t, ok)
	assert.Equal(t, 0.0, got)

	got, ok = SentimentScore(in, ZeroWhenMissing)
	assert.True(t, ok)
	assert.InDelta(t, 0.4*math.Tanh(0.5), got, 1e-12)
}

func TestAverageFunding_SkipsNonFinite(t *testing.T) {
	avg, ok := AverageFunding([]model.FundingRate{model.Rate("a", math.NaN()), model.Rate("b", 0.0002)}, ExcludeMissing)
	assert.True(t, ok)
	assert.Equal(t, 0.0002, avg)
}

func TestSentimentScore_NonFiniteRatio(t *testing.T) {
	got, ok := SentimentScore(model.IndicatorInputs{Ratio: math.NaN(), PrevRatio: 1}, ZeroWhenMissing)
	assert.False(t, ok)
	assert.Equal(t, 0.0, got)
}

func TestSentimentScore_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		in := model.IndicatorInputs{
			Ratio:     rng.Float64() * 5,
			PrevRatio: rng.Float64() * 5,
			Funding:   []model.FundingRate{model.Rate("x", (rng.Float64()-0.5)*0.01)},
		}
		got, ok := SentimentScore(in, ExcludeMissing)
		require.True(t, ok)
		assert.Greater(t, got, -1.0)
		assert.Less(t, got, 1.0)
	}

	saturated := []model.IndicatorInputs{
		{Ratio: 50, PrevRatio: 0.5, Funding: []model.FundingRate{model.Rate("x", 0.01)}},
		{Ratio: -50, PrevRatio: 50, Funding: []model.FundingRate{model.Rate("x", -0.01)}},
	}
	for _, in := range saturated {
		got, ok := SentimentScore(in, ExcludeMissing)
		require.True(t, ok)
		assert.Greater(t, got, -1.0)
		assert.Less(t, got, 1.0)
		assert.InDelta(t, 1, math.Abs(got), 1e-12)
	}
}

func TestParseFundingPolicy(t *testing.T) {
	p, err := ParseFundingPolicy("zero_when_missing")
	require.NoError(t, err)
	assert.Equal(t, ZeroWhenMissing, p)
	_, err = ParseFundingPolicy("median")
	assert.Error(t, err)
}
