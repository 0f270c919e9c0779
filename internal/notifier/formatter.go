package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var directionIcon = map[model.Direction]string{
	model.DirectionStrongUp:   "🚀",
	model.DirectionUp:         "📈",
	model.DirectionSlightUp:   "↗️",
	model.DirectionSideways:   "➡️",
	model.DirectionSlightDown: "↘️",
	model.DirectionDown:       "📉",
	model.DirectionStrongDown: "💥",
}

// FormatPrice renders a price with thousands separators. Sub-dollar prices keep four decimals.
func FormatPrice(d decimal.Decimal) string {
	f := model.ToFloat64(d)
	if f != 0 && f < 1 && f > -1 {
		return "$" + humanize.FormatFloat("#,###.####", f)
	}
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatPrediction formats one prediction with its factor notes.
func FormatPrediction(p *model.Prediction, current decimal.Decimal, synthetic bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s <b>%s</b> | %s\n\n", directionIcon[p.Direction], html.EscapeString(p.Symbol), p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Current: %s\n", FormatPrice(current))
	if synthetic {
		b.WriteString("⚠️ upstream unavailable, synthetic data\n")
	}
	fmt.Fprintf(&b, "Direction: <b>%s</b> (%.0f%% confidence)\n", p.Direction, p.Confidence)
	fmt.Fprintf(&b, "Target: %s within %s\n", FormatPrice(p.TargetPrice), p.Timeframe)
	fmt.Fprintf(&b, "Risk: %s | Score: %+.3f\n", p.RiskLevel, p.Score)
	if p.Reasoning != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(p.Reasoning))
	}
	if len(p.Factors) > 0 {
		b.WriteString("\n<b>Factors:</b>\n")
		for _, f := range p.Factors {
			fmt.Fprintf(&b, "  • %s\n", html.EscapeString(f))
		}
	}
	return b.String()
}

// FormatSentiment formats the aggregated sentiment of several texts.
func FormatSentiment(sum *model.SentimentSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 <b>Market sentiment</b>: %s\n", sum.Label)
	fmt.Fprintf(&b, "Polarity: %+.2f | Confidence: %.0f%% | Sources: %d\n", sum.Polarity, sum.Confidence*100, sum.Count)
	for _, r := range sum.Results {
		fmt.Fprintf(&b, "  • %s (%+.2f) %s\n", r.Label, r.Polarity, html.EscapeString(truncate(r.Text, 60)))
	}
	return b.String()
}

// FormatAlert formats a newly triggered alert.
func FormatAlert(a *model.PriceAlert, price decimal.Decimal) string {
	when := time.Now()
	if a.TriggeredAt != nil {
		when = *a.TriggeredAt
	}
	return fmt.Sprintf("🔔 <b>Alert</b> %s is %s %s\nPrice: %s at %s",
		html.EscapeString(a.Symbol), a.Condition, FormatPrice(a.Threshold), FormatPrice(price), when.Format("15:04:05"))
}

// FormatAlertList lists alert rules with their latch state.
func FormatAlertList(alerts []model.PriceAlert) string {
	if len(alerts) == 0 {
		return "No price alerts"
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Price alerts</b>\n")
	for _, a := range alerts {
		state := "active"
		if a.Triggered {
			state = "triggered"
			if a.TriggeredAt != nil {
				state += " " + humanize.Time(*a.TriggeredAt)
			}
		}
		fmt.Fprintf(&b, "  %s %s %s [%s] <code>%s</code>\n", a.Symbol, a.Condition, FormatPrice(a.Threshold), state, a.ID)
	}
	return b.String()
}

// FormatPortfolio formats a portfolio valuation.
func FormatPortfolio(sum *model.PortfolioSummary) string {
	if len(sum.Positions) == 0 {
		return "No assets in portfolio"
	}
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	for _, p := range sum.Positions {
		fmt.Fprintf(&b, "%s %s @ %s → %s (%s, %+.2f%%)\n",
			p.Holding.Quantity.String(), p.Holding.Symbol,
			FormatPrice(p.Holding.BuyPrice), FormatPrice(p.CurrentValue),
			signedMoney(p.PnL), p.PnLPercent)
	}
	fmt.Fprintf(&b, "\nInvested: %s\nValue: %s\nP&L: %s (%+.2f%%)\n",
		FormatPrice(sum.TotalInvested), FormatPrice(sum.TotalValue), signedMoney(sum.TotalPnL), sum.PnLPercent)
	return b.String()
}

// FormatVolume renders a 24h volume compactly, e.g. "12.3 M".
func FormatVolume(d decimal.Decimal) string {
	v, unit := humanize.ComputeSI(model.ToFloat64(d))
	return strings.TrimSpace(humanize.FormatFloat("#,###.#", v) + " " + unit)
}

func signedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatPrice(d.Abs())
	}
	return "+" + FormatPrice(d)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
