package model

// Metric is an indicator value that may be unavailable (insufficient history, degenerate range).
type Metric struct {
	Value     float64
	Available bool
}

// Some wraps an available value.
func Some(v float64) Metric { return Metric{Value: v, Available: true} }

// Or returns the value, or def when unavailable.
func (m Metric) Or(def float64) float64 {
	if !m.Available {
		return def
	}
	return m.Value
}

// IndicatorSet is derived from a PriceSeries on every evaluation. Never persisted.
type IndicatorSet struct {
	CurrentPrice  float64
	MovingAverage map[int]Metric // keyed by window size
	Volatility    Metric
	RSI           Metric
	RangePosition Metric
	Slope         Metric
}
