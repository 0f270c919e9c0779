package strategy

import (
	"errors"
	"fmt"
	"math"

	"CryptoSentinel/internal/calculator"
)

const (
	trendWeight        = 0.7
	trendWindow        = 5
	volatilityWeight   = 0.5
	highVolume         = 10_000_000
	mediumVolume       = 5_000_000
	rangeDampening     = 0.8
	rangeUpperBoundary = 0.7
	rangeLowerBoundary = 0.3
)

// scoreTrend returns +0.7/-0.7/0 from the least-squares slope over the last 5 prices.
// With fewer than 5 prices it falls back to the sign of the most recent delta.
func scoreTrend(prices []float64) (float64, string) {
	var direction float64
	if len(prices) >= trendWindow {
		if slope, err := calculator.CalculateSlope(prices[len(prices)-trendWindow:]); err == nil {
			direction = slope
		}
	} else if len(prices) >= 2 {
		direction = prices[len(prices)-1] - prices[len(prices)-2]
	}

	switch {
	case direction > 0:
		return trendWeight, "Trend: Bullish"
	case direction < 0:
		return -trendWeight, "Trend: Bearish"
	default:
		return 0, "Trend: Neutral"
	}
}

// scoreVolatility scales the absolute 24h change percent.
func scoreVolatility(changePercent float64) (float64, string) {
	v := math.Abs(changePercent)
	return v / 100 * volatilityWeight, fmt.Sprintf("Volatility: %.1f%%", v)
}

// scoreVolume grades 24h volume into three tiers.
func scoreVolume(volume float64) (float64, string) {
	switch {
	case volume > highVolume:
		return 0.3, "Volume: High"
	case volume > mediumVolume:
		return 0.1, "Volume: Medium"
	default:
		return -0.1, "Volume: Low"
	}
}

// scoreRange maps the 24h range position onto [-1, 1], dampened near either boundary.
// A degenerate range contributes nothing.
func scoreRange(current, high, low float64) (float64, []string) {
	pos, err := calculator.CalculateRangePosition(current, high, low)
	if errors.Is(err, calculator.ErrDegenerateRange) {
		return 0, []string{"24h range unavailable"}
	}
	score := (pos - 0.5) * 2
	switch {
	case pos > rangeUpperBoundary:
		return score * rangeDampening, []string{"Price near 24h high - Resistance possible"}
	case pos < rangeLowerBoundary:
		return score * rangeDampening, []string{"Price near 24h low - Support possible"}
	}
	return score, nil
}
