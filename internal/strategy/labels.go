package strategy

// ActionForRSI is the suggested action shown next to a coin.
func ActionForRSI(rsi float64) string {
	switch {
	case rsi < 30:
		return "考慮買入"
	case rsi > 70:
		return "考慮賣出"
	}
	return "持有"
}

// ZoneForRSI is the short zone label.
func ZoneForRSI(rsi float64) string {
	switch {
	case rsi < 30:
		return "可買"
	case rsi > 70:
		return "可賣"
	}
	return "等待"
}
