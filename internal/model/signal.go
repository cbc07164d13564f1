package model

// Direction is the outcome of a directional heuristic.
type Direction string

const (
	DirectionLong    Direction = "LONG"
	DirectionShort   Direction = "SHORT"
	DirectionNeutral Direction = "NEUTRAL"
)

// Category is a discrete band of a composite index.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// NeutralCategory is used whenever an index cannot be computed.
var NeutralCategory = Category{Code: "neutral", Label: "中性"}

// CompositeResult is the output of one composite scorer.
type CompositeResult struct {
	Name     string   `json:"name"`
	Asset    string   `json:"asset"`
	Score    float64  `json:"score"`
	Category Category `json:"category"`
}

// TradePlan holds entry, stop and take levels.
type TradePlan struct {
	Trigger float64 `json:"trigger"`
	Entry   float64 `json:"entry"`
	Stop    float64 `json:"stop"`
	Take    float64 `json:"take"`
}

// BiasResult is the output of the directional bias heuristic.
type BiasResult struct {
	Score     float64    `json:"score"`
	Direction Direction  `json:"direction"`
	Reasons   []string   `json:"reasons,omitempty"`
	Plan      *TradePlan `json:"plan,omitempty"`
}

// SignalResult is the latest value of the long/short-ratio signal.
type SignalResult struct {
	S         float64   `json:"s"`
	SStar     float64   `json:"s_star"`
	Trend     float64   `json:"trend"`
	Low       float64   `json:"q_low"`
	High      float64   `json:"q_high"`
	Direction Direction `json:"direction"`
	Entry     float64   `json:"entry"`
	Stop      float64   `json:"stop"`
	Take      float64   `json:"take"`
	Size      float64   `json:"size"`
}
