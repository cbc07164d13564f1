package strategy

import (
	"math"

	"github.com/markcheno/go-talib"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// SignalParams are the coefficients of the long/short-ratio signal.
type SignalParams struct {
	Window     int     `yaml:"window"`
	Alpha      float64 `yaml:"alpha"`
	Beta       float64 `yaml:"beta"`
	Gamma      float64 `yaml:"gamma"`
	Eta        float64 `yaml:"eta"`
	QLow       float64 `yaml:"q_low"`
	QHigh      float64 `yaml:"q_high"`
	EntryATR   float64 `yaml:"entry_atr"`
	StopATR    float64 `yaml:"stop_atr"`
	TakeATR    float64 `yaml:"take_atr"`
	RiskPct    float64 `yaml:"risk_pct"`
	PointValue float64 `yaml:"point_value"`
	Equity     float64 `yaml:"equity"`
	FastEMA    int     `yaml:"fast_ema"`
	SlowEMA    int     `yaml:"slow_ema"`
}

// DefaultSignalParams returns the stock coefficients.
func DefaultSignalParams() SignalParams {
	return SignalParams{
		Window:     48,
		Alpha:      0.55,
		Beta:       0.35,
		Gamma:      0.10,
		Eta:        0.25,
		QLow:       0.20,
		QHigh:      0.80,
		EntryATR:   0.3,
		StopATR:    1.5,
		TakeATR:    2.0,
		RiskPct:    0.0075,
		PointValue: 1,
		Equity:     10000,
		FastEMA:    21,
		SlowEMA:    55,
	}
}

// LSRSeries is an aligned series of closes, volumes and long/short ratios,
// oldest first.
type LSRSeries struct {
	Closes  []float64
	Volumes []float64
	LSR     []float64
}

// ComputeLSRSignal evaluates the signal at the last bar. Short or
// misaligned series are NEUTRAL with zero levels.
func ComputeLSRSignal(s LSRSeries, p SignalParams) model.SignalResult {
	out := model.SignalResult{Direction: model.DirectionNeutral}
	n := len(s.Closes)
	minLen := p.Window + 2
	if p.SlowEMA+1 > minLen {
		minLen = p.SlowEMA + 1
	}
	if p.Window < 2 || p.FastEMA < 2 || p.SlowEMA < 2 || n < minLen ||
		len(s.Volumes) != n || len(s.LSR) != n {
		return out
	}

	lsr := calculator.Winsorize(s.LSR, 0.01, 0.99)
	zLSR := calculator.RollingZ(lsr, p.Window)
	zDLSR := calculator.RollingZ(lagged(calculator.Diff(lsr)), p.Window)
	momen := calculator.RollingZ(lagged(calculator.LogReturns(s.Closes)), p.Window)
	zVol := calculator.RollingZ(s.Volumes, p.Window)

	fast := talib.Ema(s.Closes, p.FastEMA)
	slow := talib.Ema(s.Closes, p.SlowEMA)

	sStar := make([]float64, n)
	var last, lastTrend float64
	for i := 0; i < n; i++ {
		trend := 0.0
		if i >= p.SlowEMA-1 {
			trend = sign(fast[i] - slow[i])
		}
		raw := p.Alpha*zLSR[i] + p.Beta*zDLSR[i] + p.Gamma*momen[i]
		switch {
		case math.IsNaN(raw):
			sStar[i] = math.NaN()
		case raw*trend > 0:
			v := zVol[i]
			if math.IsNaN(v) || v < 0 {
				v = 0
			}
			sStar[i] = raw * (1 + p.Eta*v)
		default:
			sStar[i] = 0
		}
		if i == n-1 {
			last, lastTrend = raw, trend
		}
	}

	out.S = last
	out.Trend = lastTrend
	latest := sStar[n-1]
	if math.IsNaN(latest) {
		out.S = 0
		return out
	}
	out.SStar = latest
	out.Low = calculator.Quantile(sStar, p.QLow)
	out.High = calculator.Quantile(sStar, p.QHigh)

	switch {
	case latest > out.High:
		out.Direction = model.DirectionLong
	case latest < out.Low:
		out.Direction = model.DirectionShort
	default:
		return out
	}

	atr := calculator.ATRProxy(s.Closes, calculator.DefaultATRWindow)
	price := s.Closes[n-1]
	if atr <= 0 {
		return out
	}
	if out.Direction == model.DirectionLong {
		out.Entry = price - p.EntryATR*atr
		out.Stop = out.Entry - p.StopATR*atr
		out.Take = out.Entry + p.TakeATR*atr
	} else {
		out.Entry = price + p.EntryATR*atr
		out.Stop = out.Entry + p.StopATR*atr
		out.Take = out.Entry - p.TakeATR*atr
	}
	if p.PointValue > 0 && p.StopATR > 0 {
		out.Size = p.RiskPct * p.Equity / (p.StopATR * atr * p.PointValue)
	}
	return out
}

// lagged prefixes xs with NaN so that it lines up with the series it was
// differenced from.
func lagged(xs []float64) []float64 {
	return append([]float64{math.NaN()}, xs...)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
