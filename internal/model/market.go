package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is a single recorded price sample. Never mutated after it is appended to a series.
type PriceObservation struct {
	Price     decimal.Decimal
	Volume    decimal.Decimal
	High24h   decimal.Decimal
	Low24h    decimal.Decimal
	Timestamp time.Time
}

// Stats24h holds rolling 24h statistics for a symbol.
type Stats24h struct {
	High               decimal.Decimal
	Low                decimal.Decimal
	Volume             decimal.Decimal
	PriceChange        decimal.Decimal
	PriceChangePercent decimal.Decimal
}

// SymbolInfo describes a tracked asset.
type SymbolInfo struct {
	Symbol        string  `yaml:"symbol"`
	Name          string  `yaml:"name"`
	BaselinePrice float64 `yaml:"baseline_price"`
	Category      string  `yaml:"category"`
}

// ToFloat64 converts a decimal to float64, ignoring exactness.
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
