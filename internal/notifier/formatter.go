package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"MarketPulse/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// formatPrice prints prices at or above 1 with thousands separators and two
// decimals, smaller ones with up to six significant decimals.
func formatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	if math.Abs(v) >= 1 {
		return humanize.CommafWithDigits(v, 2)
	}
	return decimal.NewFromFloat(v).Round(6).String()
}

// formatRate prints a funding rate as a percentage with four decimals.
func formatRate(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(4) + "%"
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func signed(v float64, places int32) string {
	s := fixed(v, places)
	if v >= 0 {
		return "+" + s
	}
	return s
}

// FormatMarket formats the market board.
func FormatMarket(b *model.MarketBoard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 <b>市場總覽</b> | %s\n\n", b.GeneratedAt.Format(timeLayout)))

	if b.FearGreed != nil {
		sb.WriteString(fmt.Sprintf("恐懼貪婪指數: %d (%s)\n", b.FearGreed.Value, html.EscapeString(b.FearGreed.Classification)))
	} else {
		sb.WriteString("恐懼貪婪指數: 取得失敗\n")
	}
	if b.Address.Err == "" {
		sb.WriteString(fmt.Sprintf("地址餘額: %s BTC\n", decimal.NewFromFloat(b.Address.BTC).Round(8).String()))
	} else {
		sb.WriteString("地址餘額: 取得失敗\n")
	}
	sb.WriteString("\n")

	for _, c := range b.Coins {
		if c.Err != "" && c.Price == 0 {
			sb.WriteString(fmt.Sprintf("<b>%s</b>: --\n", html.EscapeString(c.Name)))
			continue
		}
		sb.WriteString(fmt.Sprintf("<b>%s</b> %s | RSI %s | %s\n",
			html.EscapeString(c.Name), formatPrice(c.Price), fixed(c.RSI, 2), c.Action))
		sb.WriteString(fmt.Sprintf("  買區 %s - %s | 賣區 %s - %s\n",
			formatPrice(c.Zones.BuyLow), formatPrice(c.Zones.BuyHigh),
			formatPrice(c.Zones.SellLow), formatPrice(c.Zones.SellHigh)))
	}
	return sb.String()
}

// FormatSentiment formats the sentiment board.
func FormatSentiment(b *model.SentimentBoard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧭 <b>情緒分數</b> | %s\n\n", b.GeneratedAt.Format(timeLayout)))
	for _, r := range b.Rows {
		if r.Err != "" {
			sb.WriteString(fmt.Sprintf("<b>%s</b>: --\n", r.Symbol))
			continue
		}
		score := "--"
		if r.ScoreOK {
			score = signed(r.Score, 3)
		}
		sb.WriteString(fmt.Sprintf("<b>%s</b> 多空比 %s (%s) | 分數 %s\n",
			r.Symbol, fixed(r.Ratio, 3), signed(r.Ratio-r.PrevRatio, 3), score))
		var rates []string
		for _, f := range r.Funding {
			if f.OK {
				rates = append(rates, fmt.Sprintf("%s %s", f.Venue, formatRate(f.Rate)))
			} else {
				rates = append(rates, f.Venue+" --")
			}
		}
		sb.WriteString("  資金費率: " + strings.Join(rates, " | ") + "\n")
	}
	return sb.String()
}

// FormatBias formats the bias board.
func FormatBias(b *model.BiasBoard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 <b>方向偏向</b> | %s\n\n", b.GeneratedAt.Format(timeLayout)))
	for _, r := range b.Rows {
		sb.WriteString(formatBiasRow(r))
	}
	return sb.String()
}

func formatBiasRow(r model.BiasRow) string {
	if r.Err != "" && r.Price == 0 {
		return fmt.Sprintf("<b>%s</b>: --\n", r.Symbol)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b> %s | %s (%s)\n", r.Symbol, formatPrice(r.Price), r.Bias.Direction, signed(r.Bias.Score, 1)))
	sb.WriteString(fmt.Sprintf("  RSI %s | 動能 %s%% | 多 %s%% 空 %s%%\n",
		fixed(r.RSI, 1), signed(r.Momentum, 2), fixed(r.Long, 1), fixed(r.Short, 1)))
	if len(r.Bias.Reasons) > 0 {
		sb.WriteString("  " + strings.Join(r.Bias.Reasons, "、") + "\n")
	}
	if p := r.Bias.Plan; p != nil {
		sb.WriteString(fmt.Sprintf("  進場 %s | 停損 %s | 停利 %s\n", formatPrice(p.Entry), formatPrice(p.Stop), formatPrice(p.Take)))
	}
	return sb.String()
}

// FormatComposite formats the CETS and TS results.
func FormatComposite(b *model.CompositeBoard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧮 <b>綜合指數</b> | 校準 %s\n\n", html.EscapeString(b.Version)))
	sb.WriteString("<b>CETS</b>\n")
	for _, r := range b.CETS {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", r.Asset, fixed(r.Score, 4), r.Category.Label))
	}
	sb.WriteString("<b>TS</b>\n")
	for _, r := range b.TS {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", r.Asset, fixed(r.Score, 4), r.Category.Label))
	}
	return sb.String()
}

// FormatMacro formats the GIRG gauge.
func FormatMacro(b *model.MacroBoard) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌐 <b>總經衰退風險</b> | %s\n\n", b.GeneratedAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("GIRG %s %s\n", fixed(b.GIRG.Score, 3), b.GIRG.Category.Label))
	in := b.Inputs
	sb.WriteString(fmt.Sprintf("  Sahm %s | PMI %s | 10Y-2Y %s | 全球 PMI %s\n",
		fixed(in.Labor, 2), fixed(in.PMI, 1), signed(in.YieldSpread, 2), fixed(in.GlobalPMI, 1)))
	if b.Err != "" {
		sb.WriteString("  部分數據使用預設值\n")
	}
	return sb.String()
}

// FormatBiasChange formats an alert for a direction flip.
func FormatBiasChange(r model.BiasRow, from model.Direction) string {
	return fmt.Sprintf("🔔 <b>%s 方向改變</b>: %s → %s\n\n%s", r.Symbol, from, r.Bias.Direction, formatBiasRow(r))
}
