package calculator

import (
	"errors"
	"fmt"

	"github.com/cinar/indicator"
)

var (
	// ErrInsufficientData means the window needs more samples than the series holds.
	ErrInsufficientData = errors.New("not enough data")
	// ErrDegenerateRange means high equals low, so a range position is undefined.
	ErrDegenerateRange = errors.New("degenerate range")
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("SMA(%d) with %d prices: %w", period, len(prices), ErrInsufficientData)
	}
	sma := indicator.Sma(period, prices)
	return sma[len(sma)-1], nil
}

// CalculateMovingAverages computes one SMA per window. Windows without enough data are omitted.
func CalculateMovingAverages(prices []float64, windows []int) map[int]float64 {
	out := make(map[int]float64, len(windows))
	for _, w := range windows {
		if ma, err := CalculateSMA(prices, w); err == nil {
			out[w] = ma
		}
	}
	return out
}
