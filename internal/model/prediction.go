package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the discretized outlook of a prediction.
type Direction string

const (
	DirectionStrongUp   Direction = "STRONG_UP"
	DirectionUp         Direction = "UP"
	DirectionSlightUp   Direction = "SLIGHT_UP"
	DirectionSideways   Direction = "SIDEWAYS"
	DirectionSlightDown Direction = "SLIGHT_DOWN"
	DirectionDown       Direction = "DOWN"
	DirectionStrongDown Direction = "STRONG_DOWN"
)

// RiskLevel grades the magnitude of the aggregate score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ScoreFactors are the named intermediate scores combined into Total.
type ScoreFactors struct {
	Trend      float64
	Volatility float64
	Volume     float64
	Range      float64
	Total      float64
	// Notes are human-readable annotations in evaluation order.
	Notes []string
}

// Prediction is the labeled outcome of one evaluation pass.
type Prediction struct {
	Symbol      string
	Direction   Direction
	Confidence  float64 // percent, 0..100
	Timeframe   string
	Reasoning   string
	TargetPrice decimal.Decimal
	RiskLevel   RiskLevel
	Score       float64
	Factors     []string
	CreatedAt   time.Time
}
