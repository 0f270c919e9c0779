package calculator

import (
	"errors"
	"fmt"
	"math"
)

// CalculateVolatility returns the population standard deviation of the last window prices.
func CalculateVolatility(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	mean, err := CalculateSMA(prices, window)
	if err != nil {
		return 0, fmt.Errorf("volatility: %w", err)
	}
	var sum float64
	for _, p := range prices[len(prices)-window:] {
		d := p - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(window)), nil
}
