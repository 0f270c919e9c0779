package collector

import (
	"math/rand"
	"sync"

	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

const (
	walkStdDev      = 0.005
	baselineJitter  = 0.05
	minRangeSpread  = 0.02
	maxRangeSpread  = 0.08
	minSynthVolume  = 1_000_000
	maxSynthVolume  = 50_000_000
	pricePrecision  = 2
	firstVolumeLow  = 0.8
	firstVolumeHigh = 1.2
	nextVolumeLow   = 0.7
	nextVolumeHigh  = 1.3
)

// Synthesizer produces plausible substitute data when the upstream source fails.
// The random source is injected so tests can seed it.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Price walks from last when present (N(0, 0.5%) step), otherwise jitters the baseline by up to ±5%.
func (s *Synthesizer) Price(last *decimal.Decimal, baseline float64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p float64
	if last != nil {
		p = model.ToFloat64(*last) * (1 + s.rng.NormFloat64()*walkStdDev)
	} else {
		p = baseline * (1 + s.uniform(-baselineJitter, baselineJitter))
	}
	return decimal.NewFromFloat(p).Round(pricePrecision)
}

// Stats builds a symmetric 2-8% range around the baseline with a random-signed change.
func (s *Synthesizer) Stats(baseline float64) model.Stats24h {
	s.mu.Lock()
	defer s.mu.Unlock()

	variation := s.uniform(minRangeSpread, maxRangeSpread)
	sign := 1.0
	if s.rng.Intn(2) == 0 {
		sign = -1
	}
	return model.Stats24h{
		High:               decimal.NewFromFloat(baseline * (1 + variation)).Round(pricePrecision),
		Low:                decimal.NewFromFloat(baseline * (1 - variation)).Round(pricePrecision),
		Volume:             decimal.NewFromFloat(s.uniform(minSynthVolume, maxSynthVolume)).Round(0),
		PriceChange:        decimal.NewFromFloat(baseline * variation * sign).Round(pricePrecision),
		PriceChangePercent: decimal.NewFromFloat(variation * 100 * sign).Round(pricePrecision),
	}
}

// ObservedVolume scales the 24h volume for a single observation. Larger moves since the
// previous observation inflate it.
func (s *Synthesizer) ObservedVolume(base decimal.Decimal, price decimal.Decimal, prev *decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := model.ToFloat64(base)
	if prev == nil || prev.IsZero() {
		return decimal.NewFromFloat(b * s.uniform(firstVolumeLow, firstVolumeHigh)).Round(0)
	}
	changePct := model.ToFloat64(price.Sub(*prev).Div(*prev).Abs()) * 100
	mult := (1 + changePct*0.1) * s.uniform(nextVolumeLow, nextVolumeHigh)
	return decimal.NewFromFloat(b * mult).Round(0)
}

func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
