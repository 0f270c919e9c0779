package calculator

import (
	"errors"
	"fmt"
)

// CalculateRSI computes the relative strength index from the plain averages of
// gains and losses over the trailing period deltas. Requires period+1 prices.
// Saturates at 100 when there are no losses.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("RSI(%d) with %d prices: %w", period, len(prices), ErrInsufficientData)
	}

	window := prices[len(prices)-period-1:]
	var gain, loss float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
