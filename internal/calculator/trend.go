package calculator

import "fmt"

// CalculateSlope fits y = a + b*x by least squares over x = 0..n-1 and returns b.
func CalculateSlope(prices []float64) (float64, error) {
	n := len(prices)
	if n < 2 {
		return 0, fmt.Errorf("slope with %d prices: %w", n, ErrInsufficientData)
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	return (fn*sumXY - sumX*sumY) / denom, nil
}
