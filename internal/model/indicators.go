package model

import "time"

// Page names one polling board.
type Page string

const (
	PageMarket    Page = "market"
	PageRatios    Page = "ratios"
	PageSentiment Page = "sentiment"
	PageBias      Page = "bias"
	PageComposite Page = "composite"
	PageMacro     Page = "macro"
	PageSignal    Page = "signal"
)

// AllPages lists every page in display order.
var AllPages = []Page{PageMarket, PageRatios, PageSentiment, PageBias, PageComposite, PageMacro, PageSignal}

// Snapshot is implemented by every board produced by a tick.
type Snapshot interface {
	PageName() Page
	Sequence() uint64
}

// Header is embedded in every board.
type Header struct {
	Page        Page      `json:"page"`
	Seq         uint64    `json:"seq"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (h Header) PageName() Page   { return h.Page }
func (h Header) Sequence() uint64 { return h.Seq }

// FearGreed is the alternative.me index reading.
type FearGreed struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BalancePoint is the end-of-day balance of the watched address.
type BalancePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// AddressBalance is the watched address state.
type AddressBalance struct {
	Address string         `json:"address"`
	BTC     float64        `json:"btc"`
	Series  []BalancePoint `json:"series"`
	Err     string         `json:"error,omitempty"`
}

// Zones are the buy/sell bands derived from a close range.
type Zones struct {
	BuyLow   float64 `json:"buy_low"`
	BuyHigh  float64 `json:"buy_high"`
	SellLow  float64 `json:"sell_low"`
	SellHigh float64 `json:"sell_high"`
}

// CoinRow is one line of the market board.
type CoinRow struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	RSI    float64 `json:"rsi"`
	Zones  Zones   `json:"zones"`
	Action string  `json:"action"`
	Zone   string  `json:"zone"`
	Err    string  `json:"error,omitempty"`
}

// MarketBoard carries fear & greed, the watched address and coin rows.
type MarketBoard struct {
	Header
	FearGreed *FearGreed     `json:"fear_greed,omitempty"`
	FNGErr    string         `json:"fear_greed_error,omitempty"`
	Address   AddressBalance `json:"address"`
	Coins     []CoinRow      `json:"coins"`
}

// RatioRow is one venue's latest long/short ratio and its change.
type RatioRow struct {
	Symbol string  `json:"symbol"`
	Venue  string  `json:"venue"`
	Ratio  float64 `json:"ratio"`
	Change float64 `json:"change"`
	Err    string  `json:"error,omitempty"`
}

// RatioBoard lists ratio rows per coin and venue.
type RatioBoard struct {
	Header
	Rows []RatioRow `json:"rows"`
}

// SentimentRow is the sentiment score of one asset under both funding policies.
type SentimentRow struct {
	Symbol        string        `json:"symbol"`
	Ratio         float64       `json:"ratio"`
	PrevRatio     float64       `json:"prev_ratio"`
	Funding       []FundingRate `json:"funding"`
	Score         float64       `json:"score"`
	ScoreOK       bool          `json:"score_ok"`
	ScoreZeroFill float64       `json:"score_zero_fill"`
	TickChange    float64       `json:"tick_change"`
	Err           string        `json:"error,omitempty"`
}

// SentimentBoard lists sentiment rows.
type SentimentBoard struct {
	Header
	Rows []SentimentRow `json:"rows"`
}

// BiasRow is the directional bias of one asset.
type BiasRow struct {
	Symbol   string     `json:"symbol"`
	Price    float64    `json:"price"`
	RSI      float64    `json:"rsi"`
	Momentum float64    `json:"momentum_pct"`
	Long     float64    `json:"long_pct"`
	Short    float64    `json:"short_pct"`
	OIDelta  float64    `json:"oi_delta"`
	ATR      float64    `json:"atr"`
	Bias     BiasResult `json:"bias"`
	Err      string     `json:"error,omitempty"`
}

// BiasBoard lists bias rows.
type BiasBoard struct {
	Header
	Rows []BiasRow `json:"rows"`
}

// CompositeBoard holds CETS and TS results for every calibrated asset.
type CompositeBoard struct {
	Header
	Version string            `json:"calibration_version"`
	CETS    []CompositeResult `json:"cets"`
	TS      []CompositeResult `json:"ts"`
}

// MacroBoard holds the GIRG recession gauge.
type MacroBoard struct {
	Header
	Version string          `json:"calibration_version"`
	Inputs  MacroInputs     `json:"inputs"`
	GIRG    CompositeResult `json:"girg"`
	Err     string          `json:"error,omitempty"`
}

// MacroInputs are the raw GIRG inputs.
type MacroInputs struct {
	Labor       float64 `json:"labor"`
	PMI         float64 `json:"pmi"`
	YieldSpread float64 `json:"yield_spread"`
	GlobalPMI   float64 `json:"global_pmi"`
}

// SignalRow is the long/short-ratio signal of one asset.
type SignalRow struct {
	Symbol string       `json:"symbol"`
	Signal SignalResult `json:"signal"`
	Err    string       `json:"error,omitempty"`
}

// SignalBoard lists signal rows.
type SignalBoard struct {
	Header
	Rows []SignalRow `json:"rows"`
}
