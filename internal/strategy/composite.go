package strategy

import (
	"math"
	"strings"

	"MarketPulse/internal/calibration"
	"MarketPulse/internal/model"
)

// weighted3 returns w1*a + w2*b + w3*c, or false when the tuple is unusable.
func weighted3(a, b, c float64, w []float64) (float64, bool) {
	if len(w) != 3 || !finite(a, b, c, w[0], w[1], w[2]) {
		return 0, false
	}
	return w[0]*a + w[1]*b + w[2]*c, true
}

// CETSScore is the raw CETS weighted sum.
func CETSScore(in calibration.CETSInputs) (float64, bool) {
	return weighted3(in.Liquidity, in.Sentiment, in.OnChain, in.Weights)
}

// TSScore is the raw TS weighted sum.
func TSScore(in calibration.TSInputs) (float64, bool) {
	return weighted3(in.Momentum, in.Sentiment, in.OnChain, in.Weights)
}

// EvaluateCETS scores an asset from the calibration table. Unknown assets
// and unusable tuples fall back to neutral.
func EvaluateCETS(cal *calibration.Calibration, asset string) model.CompositeResult {
	asset = strings.ToUpper(asset)
	if cal == nil {
		return neutral("CETS", asset)
	}
	in, ok := cal.CETSFor(asset)
	if !ok {
		return neutral("CETS", asset)
	}
	score, ok := CETSScore(in)
	if !ok {
		return neutral("CETS", asset)
	}
	return model.CompositeResult{Name: "CETS", Asset: asset, Score: score, Category: mapAtLeast(score, CETSBands, CETSDefault)}
}

// EvaluateTS scores an asset from the calibration table.
func EvaluateTS(cal *calibration.Calibration, asset string) model.CompositeResult {
	asset = strings.ToUpper(asset)
	if cal == nil {
		return neutral("TS", asset)
	}
	in, ok := cal.TSFor(asset)
	if !ok {
		return neutral("TS", asset)
	}
	score, ok := TSScore(in)
	if !ok {
		return neutral("TS", asset)
	}
	return model.CompositeResult{Name: "TS", Asset: asset, Score: score, Category: mapAtLeast(score, TSBands, TSDefault)}
}

// GIRGScore combines the four macro terms, each normalised by its divisor:
// the labor statistic as is, the PMI shortfalls below 50 and the yield
// curve inversion.
func GIRGScore(g calibration.GIRG, in model.MacroInputs) (float64, bool) {
	if !finite(in.Labor, in.PMI, in.YieldSpread, in.GlobalPMI) {
		return 0, false
	}
	d := g.Divisors
	if d.Labor <= 0 || d.PMI <= 0 || d.Curve <= 0 || d.GlobalPMI <= 0 {
		return 0, false
	}
	w := g.Weights
	score := w.Labor*(in.Labor/d.Labor) +
		w.PMI*(math.Max(0, 50-in.PMI)/d.PMI) +
		w.Curve*(math.Max(0, -in.YieldSpread)/d.Curve) +
		w.GlobalPMI*(math.Max(0, 50-in.GlobalPMI)/d.GlobalPMI)
	if !finite(score) {
		return 0, false
	}
	return score, true
}

// EvaluateGIRG scores the macro inputs.
func EvaluateGIRG(cal *calibration.Calibration, in model.MacroInputs) model.CompositeResult {
	if cal == nil {
		return neutral("GIRG", "US")
	}
	score, ok := GIRGScore(cal.GIRG, in)
	if !ok {
		return neutral("GIRG", "US")
	}
	return model.CompositeResult{Name: "GIRG", Asset: "US", Score: score, Category: mapBelow(score, GIRGBands, GIRGDefault)}
}

// EvaluateAll returns CETS and TS for every calibrated asset, sorted by asset.
func EvaluateAll(cal *calibration.Calibration) (cets, ts []model.CompositeResult) {
	if cal == nil {
		return nil, nil
	}
	for _, asset := range cal.Assets() {
		if _, ok := cal.CETSFor(asset); ok {
			cets = append(cets, EvaluateCETS(cal, asset))
		}
		if _, ok := cal.TSFor(asset); ok {
			ts = append(ts, EvaluateTS(cal, asset))
		}
	}
	return cets, ts
}
