package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

func TestCalculateRange_Window(t *testing.T) {
	high, low, err := CalculateRange([]float64{1, 50, 3, 7, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, high)
	assert.Equal(t, 3.0, low)

	_, _, err = CalculateRange(nil, 0)
	assert.Error(t, err)
}

func TestTradeZones(t *testing.T) {
	z := TradeZones([]float64{10, 20, 15}, 99)
	assert.Equal(t, model.Zones{BuyLow: 10, BuyHigh: 12, SellLow: 18, SellHigh: 20}, z)
}

func TestTradeZones_FallbackWithoutData(t *testing.T) {
	want := model.Zones{BuyLow: 42, BuyHigh: 42, SellLow: 42, SellHigh: 42}
	assert.Equal(t, want, TradeZones(nil, 42))
	assert.Equal(t, want, TradeZones([]float64{math.NaN()}, 42))
}

func TestATRProxy(t *testing.T) {
	assert.InDelta(t, 4.0/3.0, ATRProxy([]float64{1, 2, 4, 3}, 14), 1e-12)
	// only the last two deltas
	assert.InDelta(t, 1.5, ATRProxy([]float64{100, 1, 2, 4, 3}, 2), 1e-12)
	assert.Equal(t, 0.0, ATRProxy([]float64{1}, 14))
}

func TestMomentum(t *testing.T) {
	assert.InDelta(t, 0.2, Momentum([]float64{100, 100.2}), 1e-9)
	assert.True(t, math.IsNaN(Momentum([]float64{1})))
	assert.True(t, math.IsNaN(Momentum([]float64{0, 1})))
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, sma)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.Error(t, err)
}
