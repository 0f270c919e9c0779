package calculator

import (
	"CryptoSentinel/internal/model"
)

// Params selects the windows used by Compute. Call sites differ, so nothing is hard-coded.
type Params struct {
	MAWindows        []int
	RSIPeriod        int
	VolatilityWindow int
	SlopeWindow      int
}

// DefaultParams mirrors the dashboard defaults.
func DefaultParams() Params {
	return Params{
		MAWindows:        []int{5, 10, 20},
		RSIPeriod:        14,
		VolatilityWindow: 15,
		SlopeWindow:      5,
	}
}

// Compute derives the IndicatorSet from a series. Indicators needing more history
// than available are left unavailable.
func Compute(series *model.PriceSeries, p Params) model.IndicatorSet {
	prices := series.Prices()
	set := model.IndicatorSet{MovingAverage: make(map[int]model.Metric, len(p.MAWindows))}

	last, ok := series.Last()
	if !ok {
		for _, w := range p.MAWindows {
			set.MovingAverage[w] = model.Metric{}
		}
		return set
	}
	set.CurrentPrice = model.ToFloat64(last.Price)

	for _, w := range p.MAWindows {
		if ma, err := CalculateSMA(prices, w); err == nil {
			set.MovingAverage[w] = model.Some(ma)
		} else {
			set.MovingAverage[w] = model.Metric{}
		}
	}
	if v, err := CalculateVolatility(prices, p.VolatilityWindow); err == nil {
		set.Volatility = model.Some(v)
	}
	if rsi, err := CalculateRSI(prices, p.RSIPeriod); err == nil {
		set.RSI = model.Some(rsi)
	}
	if pos, err := CalculateRangePosition(set.CurrentPrice, model.ToFloat64(last.High24h), model.ToFloat64(last.Low24h)); err == nil {
		set.RangePosition = model.Some(pos)
	}
	if p.SlopeWindow > 0 && len(prices) >= p.SlopeWindow {
		if slope, err := CalculateSlope(prices[len(prices)-p.SlopeWindow:]); err == nil {
			set.Slope = model.Some(slope)
		}
	}
	return set
}
