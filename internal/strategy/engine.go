package strategy

import (
	"math"

	"MarketPulse/internal/model"
)

// band maps a score to a category. Bands are checked in order; the first one
// whose bound admits the score wins.
type band struct {
	Bound    float64
	Strict   bool
	Category model.Category
}

// CETSBands are checked from the top: score >= bound.
var CETSBands = []band{
	{0.75, false, model.Category{Code: "high", Label: "高勝率進場區"}},
	{0.55, false, model.Category{Code: "watch", Label: "觀察區"}},
}

// CETSDefault is the CETS category below every band.
var CETSDefault = model.Category{Code: "low", Label: "低勝率區"}

// TSBands are checked from the top; the bullish bound is exclusive.
var TSBands = []band{
	{0.6, true, model.Category{Code: "bullish", Label: "強烈看漲"}},
	{0.3, false, model.Category{Code: "neutral", Label: "中性"}},
}

// TSDefault is the TS category below every band.
var TSDefault = model.Category{Code: "bearish", Label: "看跌"}

// GIRGBands are checked from the bottom: score < bound.
var GIRGBands = []band{
	{0.5, true, model.Category{Code: "low", Label: "低衰退風險"}},
	{1.0, true, model.Category{Code: "moderate", Label: "中度衰退風險"}},
}

// GIRGDefault is the GIRG category at or above every band.
var GIRGDefault = model.Category{Code: "high", Label: "高衰退風險"}

// mapAtLeast returns the first band the score reaches.
func mapAtLeast(score float64, bands []band, fallback model.Category) model.Category {
	for _, b := range bands {
		if score > b.Bound || (!b.Strict && score == b.Bound) {
			return b.Category
		}
	}
	return fallback
}

// mapBelow returns the first band the score stays under.
func mapBelow(score float64, bands []band, fallback model.Category) model.Category {
	for _, b := range bands {
		if score < b.Bound || (!b.Strict && score == b.Bound) {
			return b.Category
		}
	}
	return fallback
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func neutral(name, asset string) model.CompositeResult {
	return model.CompositeResult{Name: name, Asset: asset, Category: model.NeutralCategory}
}
