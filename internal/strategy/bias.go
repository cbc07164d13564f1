package strategy

import (
	"math"

	"MarketPulse/internal/model"
)

// Bias thresholds and level multipliers.
const (
	BiasOversold      = 30.0
	BiasOverbought    = 70.0
	BiasMomentumPct   = 0.15
	BiasSkew          = 5.0
	BiasOIWeight      = 0.5
	TriggerATRFactor  = 0.2
	TriggerPriceFloor = 0.001
	StopATRFactor     = 1.0
	TakeATRFactor     = 1.8
)

// BiasInputs are the readings of one asset at one tick. Momentum is the last
// one-period change in percent; Long and Short are percentages.
type BiasInputs struct {
	RSI      float64
	Momentum float64
	Long     float64
	Short    float64
	OIDelta  float64
	Price    float64
	ATR      float64
}

// EvaluateBias accumulates the independent threshold rules and derives
// trade levels for a directional result. Non-finite inputs skip their rule.
func EvaluateBias(in BiasInputs) model.BiasResult {
	var score float64
	var reasons []string
	add := func(v float64, why string) {
		score += v
		reasons = append(reasons, why)
	}

	if finite(in.RSI) {
		switch {
		case in.RSI < BiasOversold:
			add(1, "RSI 超賣")
		case in.RSI > BiasOverbought:
			add(-1, "RSI 超買")
		}
	}
	if finite(in.Momentum) {
		switch {
		case in.Momentum > BiasMomentumPct:
			add(1, "動能轉強")
		case in.Momentum < -BiasMomentumPct:
			add(-1, "動能轉弱")
		}
	}
	if finite(in.Long, in.Short) {
		switch skew := in.Long - in.Short; {
		case skew > BiasSkew:
			add(1, "多方佔優")
		case skew < -BiasSkew:
			add(-1, "空方佔優")
		}
	}
	if finite(in.OIDelta, in.Momentum) && in.OIDelta > 0 {
		switch {
		case in.Momentum > 0:
			add(BiasOIWeight, "增倉上漲")
		case in.Momentum < 0:
			add(-BiasOIWeight, "增倉下跌")
		}
	}

	res := model.BiasResult{Score: score, Direction: model.DirectionNeutral, Reasons: reasons}
	switch {
	case score >= 1:
		res.Direction = model.DirectionLong
	case score <= -1:
		res.Direction = model.DirectionShort
	}
	res.Plan = TradeLevels(res.Direction, in.Price, in.ATR)
	return res
}

// TradeLevels returns entry, stop and take for a direction. NEUTRAL, a
// non-positive price or ATR yield no plan.
func TradeLevels(dir model.Direction, price, atr float64) *model.TradePlan {
	if dir == model.DirectionNeutral || !finite(price, atr) || price <= 0 || atr <= 0 {
		return nil
	}
	trigger := math.Max(atr*TriggerATRFactor, price*TriggerPriceFloor)
	stop := atr * StopATRFactor
	take := atr * TakeATRFactor

	p := &model.TradePlan{Trigger: trigger}
	if dir == model.DirectionLong {
		p.Entry = price + trigger
		p.Stop = p.Entry - stop
		p.Take = p.Entry + take
	} else {
		p.Entry = price - trigger
		p.Stop = p.Entry + stop
		p.Take = p.Entry - take
	}
	return p
}
