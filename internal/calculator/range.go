package calculator

import "fmt"

// CalculateRangePosition returns where current sits between low and high.
// The result is not clamped: a price outside the range yields <0 or >1.
func CalculateRangePosition(current, high, low float64) (float64, error) {
	if high <= low {
		return 0, fmt.Errorf("high %.8f, low %.8f: %w", high, low, ErrDegenerateRange)
	}
	return (current - low) / (high - low), nil
}
