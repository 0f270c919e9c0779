package strategy

import (
	"math"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Input is everything one evaluation needs. Prices is chronological and ends with the current price.
type Input struct {
	CurrentPrice decimal.Decimal
	Stats        model.Stats24h
	Prices       []float64
}

// Band is one row of the classification table.
type Band struct {
	Cut           float64
	Upward        bool // match score > Cut when true, score < Cut otherwise
	Direction     model.Direction
	ConfidenceCap float64
	Timeframe     string
	Reasoning     string
}

func (b Band) matches(score float64) bool {
	if b.Upward {
		return score > b.Cut
	}
	return score < b.Cut
}

// Bands is evaluated in order; the first match wins.
var Bands = []Band{
	{0.8, true, model.DirectionStrongUp, 98, "15-30 minutes", "Very strong bullish indicators across multiple factors"},
	{0.3, true, model.DirectionUp, 85, "30-60 minutes", "Strong bullish signals with good momentum"},
	{0.1, true, model.DirectionSlightUp, 70, "1-2 hours", "Moderate bullish signals"},
	{-0.8, false, model.DirectionStrongDown, 98, "15-30 minutes", "Very strong bearish pressure across all factors"},
	{-0.3, false, model.DirectionDown, 85, "30-60 minutes", "Strong bearish signals with negative momentum"},
	{-0.1, false, model.DirectionSlightDown, 70, "1-2 hours", "Moderate bearish signals"},
}

// SidewaysBand applies when no band matches.
var SidewaysBand = Band{Direction: model.DirectionSideways, ConfidenceCap: 50, Timeframe: "Next 2 hours", Reasoning: "Mixed signals with balanced market conditions"}

const (
	sidewaysConfidence = 50
	targetMoveFactor   = 0.03
)

// Aggregate combines the four factor scores into a total by plain addition.
func Aggregate(in Input) model.ScoreFactors {
	var f model.ScoreFactors

	trend, note := scoreTrend(in.Prices)
	f.Trend = trend
	f.Notes = append(f.Notes, note)

	vol, note := scoreVolatility(model.ToFloat64(in.Stats.PriceChangePercent))
	f.Volatility = vol
	f.Notes = append(f.Notes, note)

	volume, note := scoreVolume(model.ToFloat64(in.Stats.Volume))
	f.Volume = volume
	f.Notes = append(f.Notes, note)

	rng, notes := scoreRange(model.ToFloat64(in.CurrentPrice), model.ToFloat64(in.Stats.High), model.ToFloat64(in.Stats.Low))
	f.Range = rng
	f.Notes = append(f.Notes, notes...)

	f.Total = f.Trend + f.Volatility + f.Volume + f.Range
	return f
}

// mapBand maps a total score to its band.
func mapBand(score float64) Band {
	for _, b := range Bands {
		if b.matches(score) {
			return b
		}
	}
	return SidewaysBand
}

// RiskFor grades the absolute score.
func RiskFor(score float64) model.RiskLevel {
	a := math.Abs(score)
	switch {
	case a < 0.3:
		return model.RiskLow
	case a < 0.6:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Classify turns a factor breakdown into a prediction. Pure: same inputs, same output.
func Classify(symbol string, currentPrice decimal.Decimal, f model.ScoreFactors, now time.Time) model.Prediction {
	band := mapBand(f.Total)

	confidence := float64(sidewaysConfidence)
	if band.Direction != model.DirectionSideways {
		confidence = math.Min(math.Abs(f.Total)*100, band.ConfidenceCap)
	}
	confidence = clamp(confidence, 0, 100)

	target := currentPrice.Mul(decimal.NewFromFloat(1 + f.Total*targetMoveFactor))

	factors := make([]string, len(f.Notes))
	copy(factors, f.Notes)

	return model.Prediction{
		Symbol:      symbol,
		Direction:   band.Direction,
		Confidence:  confidence,
		Timeframe:   band.Timeframe,
		Reasoning:   band.Reasoning,
		TargetPrice: target,
		RiskLevel:   RiskFor(f.Total),
		Score:       f.Total,
		Factors:     factors,
		CreatedAt:   now,
	}
}

// Evaluate aggregates and classifies in one step.
func Evaluate(symbol string, in Input, now time.Time) (model.Prediction, model.ScoreFactors) {
	f := Aggregate(in)
	return Classify(symbol, in.CurrentPrice, f, now), f
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
