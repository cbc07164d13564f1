package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"MarketPulse/internal/model"
)

// SatsToBTC converts satoshis to BTC without float drift in the scaling.
func SatsToBTC(sats int64) float64 {
	return decimal.New(sats, -8).InexactFloat64()
}

// DailyBalances replays txs in time order and returns the running balance at
// the end of each UTC day, oldest first.
func DailyBalances(txs []model.ChainTx) []model.BalancePoint {
	if len(txs) == 0 {
		return nil
	}
	sorted := make([]model.ChainTx, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	byDay := make(map[string]int64)
	var running int64
	for _, tx := range sorted {
		running += tx.Result
		byDay[tx.Time.UTC().Format("2006-01-02")] = running
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	points := make([]model.BalancePoint, len(days))
	for i, d := range days {
		points[i] = model.BalancePoint{Date: d, Value: SatsToBTC(byDay[d])}
	}
	return points
}

// FlatSeries labels each activity day with the same balance. It is used when
// only the current balance and the activity dates are known.
func FlatSeries(days []string, btc float64) []model.BalancePoint {
	uniq := make(map[string]struct{}, len(days))
	for _, d := range days {
		uniq[d] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for d := range uniq {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)
	points := make([]model.BalancePoint, len(sorted))
	for i, d := range sorted {
		points[i] = model.BalancePoint{Date: d, Value: btc}
	}
	return points
}
