package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the close series of one asset as fetched for a tick.
type PriceSeries struct {
	Symbol       string
	Times        []time.Time
	Closes       []float64
	CurrentPrice float64
	FetchedAt    time.Time
}

// RatioPoint is one long/short ratio observation. Ordering is chronological.
type RatioPoint struct {
	Time  string  `json:"time"`
	Ratio float64 `json:"ratio"`
}

// FundingRate is the latest funding rate of one venue. OK=false means the
// venue had no data, which is an expected state.
type FundingRate struct {
	Venue string  `json:"venue"`
	Rate  float64 `json:"rate"`
	OK    bool    `json:"ok"`
}

// Rate returns a present funding rate for venue.
func Rate(venue string, rate float64) FundingRate {
	return FundingRate{Venue: venue, Rate: rate, OK: true}
}

// NoRate returns the missing funding rate for venue.
func NoRate(venue string) FundingRate {
	return FundingRate{Venue: venue}
}

// IndicatorInputs is the per-asset bundle fed to the sentiment score.
type IndicatorInputs struct {
	Symbol    string
	Ratio     float64
	PrevRatio float64
	Funding   []FundingRate
}

// Coin identifies one tracked asset across venues.
type Coin struct {
	ID      string `yaml:"id" json:"id"`           // CoinGecko id
	Name    string `yaml:"name" json:"name"`       // display name
	Symbol  string `yaml:"symbol" json:"symbol"`   // BTC
	Binance string `yaml:"binance" json:"binance"` // BTCUSDT
	OKX     string `yaml:"okx" json:"okx"`         // BTC-USDT-SWAP
	Bybit   string `yaml:"bybit" json:"bybit"`     // BTCUSDT
}

// ChainTx is one address transaction reduced to its net effect in satoshis.
type ChainTx struct {
	Time   time.Time
	Result int64
}
