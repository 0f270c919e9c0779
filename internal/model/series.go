package model

import "sync"

// DefaultSeriesCap is the number of observations kept per symbol.
const DefaultSeriesCap = 50

// PriceSeries is the bounded, insertion-ordered observation window for one symbol.
// It is safe for concurrent use.
type PriceSeries struct {
	Symbol string
	mu     sync.RWMutex
	obs    *History[PriceObservation]
}

// NewPriceSeries creates an empty series capped at capacity observations.
func NewPriceSeries(symbol string, capacity int) *PriceSeries {
	return &PriceSeries{Symbol: symbol, obs: NewHistory[PriceObservation](capacity)}
}

// Append records an observation, evicting the oldest one on overflow.
func (s *PriceSeries) Append(o PriceObservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs.Append(o)
}

func (s *PriceSeries) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obs.Len()
}

func (s *PriceSeries) Cap() int { return s.obs.Cap() }

// Last returns the most recent observation.
func (s *PriceSeries) Last() (PriceObservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obs.Last()
}

// Observations returns a copy of the window, oldest first.
func (s *PriceSeries) Observations() []PriceObservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obs.Items()
}

// Prices extracts the price column in chronological order.
func (s *PriceSeries) Prices() []float64 {
	items := s.Observations()
	prices := make([]float64, len(items))
	for i, o := range items {
		prices[i] = ToFloat64(o.Price)
	}
	return prices
}
