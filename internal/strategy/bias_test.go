package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

func TestEvaluateBias_StrongLong(t *testing.T) {
	res := EvaluateBias(BiasInputs{RSI: 25, Momentum: 0.2, Long: 53, Short: 47, OIDelta: 1200, Price: 100, ATR: 2})
	assert.Equal(t, 3.5, res.Score)
	assert.Equal(t, model.DirectionLong, res.Direction)
	assert.Len(t, res.Reasons, 4)

	require.NotNil(t, res.Plan)
	assert.InDelta(t, 0.4, res.Plan.Trigger, 1e-9)
	assert.InDelta(t, 100.4, res.Plan.Entry, 1e-9)
	assert.InDelta(t, 98.4, res.Plan.Stop, 1e-9)
	assert.InDelta(t, 104.0, res.Plan.Take, 1e-9)
}

func TestEvaluateBias_Short(t *testing.T) {
	res := EvaluateBias(BiasInputs{RSI: 75, Momentum: -0.3, Long: 40, Short: 60, OIDelta: 5, Price: 2000, ATR: 1})
	assert.Equal(t, -3.5, res.Score)
	assert.Equal(t, model.DirectionShort, res.Direction)

	require.NotNil(t, res.Plan)
	// price floor beats ATR*0.2
	assert.InDelta(t, 2.0, res.Plan.Trigger, 1e-9)
	assert.InDelta(t, 1998, res.Plan.Entry, 1e-9)
	assert.InDelta(t, 1999, res.Plan.Stop, 1e-9)
	assert.InDelta(t, 1996.2, res.Plan.Take, 1e-9)
}

func TestEvaluateBias_Neutral(t *testing.T) {
	tests := []struct {
		name string
		in   BiasInputs
		want float64
	}{
		{"quiet", BiasInputs{RSI: 50, Momentum: 0.1, Long: 51, Short: 49, Price: 10, ATR: 1}, 0},
		{"oi agreement alone", BiasInputs{RSI: 50, Momentum: 0.1, Long: 50, Short: 50, OIDelta: 10, Price: 10, ATR: 1}, 0.5},
		{"falling oi is ignored", BiasInputs{RSI: 50, Momentum: 0.1, OIDelta: -10, Price: 10, ATR: 1}, 0},
		{"conflicting rules cancel", BiasInputs{RSI: 25, Momentum: -0.2, Long: 50, Short: 50, Price: 10, ATR: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateBias(tt.in)
			assert.Equal(t, tt.want, res.Score)
			assert.Equal(t, model.DirectionNeutral, res.Direction)
			assert.Nil(t, res.Plan)
		})
	}
}

func TestEvaluateBias_NonFiniteSkipsRule(t *testing.T) {
	res := EvaluateBias(BiasInputs{RSI: math.NaN(), Momentum: 0.5, Long: 60, Short: 40, OIDelta: math.NaN(), Price: 10, ATR: 1})
	assert.Equal(t, 2.0, res.Score)
	assert.Equal(t, model.DirectionLong, res.Direction)

	res = EvaluateBias(BiasInputs{RSI: 20, Momentum: math.NaN(), Long: 60, Short: 40, OIDelta: 10, Price: 10, ATR: math.NaN()})
	assert.Equal(t, 2.0, res.Score)
	assert.Nil(t, res.Plan)
}

func TestLabelsForRSI(t *testing.T) {
	assert.Equal(t, "考慮買入", ActionForRSI(29.9))
	assert.Equal(t, "持有", ActionForRSI(30))
	assert.Equal(t, "持有", ActionForRSI(70))
	assert.Equal(t, "考慮賣出", ActionForRSI(70.1))
	assert.Equal(t, "可買", ZoneForRSI(10))
	assert.Equal(t, "等待", ZoneForRSI(50))
	assert.Equal(t, "可賣", ZoneForRSI(90))
}
