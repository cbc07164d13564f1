package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MarketPulse/internal/model"
)

func TestSatsToBTC(t *testing.T) {
	assert.Equal(t, 1.23456789, SatsToBTC(123456789))
	assert.Equal(t, 0.0, SatsToBTC(0))
}

func TestDailyBalances(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	txs := []model.ChainTx{
		{Time: day1.Add(26 * time.Hour), Result: 25_000_000},
		{Time: day1, Result: 100_000_000},
		{Time: day1.Add(time.Hour), Result: -50_000_000},
	}
	got := DailyBalances(txs)
	assert.Equal(t, []model.BalancePoint{
		{Date: "2024-03-01", Value: 0.5},
		{Date: "2024-03-02", Value: 0.75},
	}, got)
	assert.Nil(t, DailyBalances(nil))
}

func TestFlatSeries(t *testing.T) {
	got := FlatSeries([]string{"2024-01-02", "2024-01-01", "2024-01-02"}, 1.5)
	assert.Equal(t, []model.BalancePoint{
		{Date: "2024-01-01", Value: 1.5},
		{Date: "2024-01-02", Value: 1.5},
	}, got)
}
