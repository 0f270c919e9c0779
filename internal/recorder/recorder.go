package recorder

import (
	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// PredictionEvent holds everything recorded for one refresh pass.
type PredictionEvent struct {
	Prediction   model.Prediction
	Factors      model.ScoreFactors
	CurrentPrice decimal.Decimal
	Synthetic    bool // price or stats were substituted
}

// AlertEvent records a newly triggered alert.
type AlertEvent struct {
	Alert model.PriceAlert
	Price decimal.Decimal
}

// PredictionRow is a stored prediction as read back for reporting.
type PredictionRow struct {
	ID              int64   `db:"id"`
	Timestamp       int64   `db:"timestamp"`
	Symbol          string  `db:"symbol"`
	CurrentPrice    float64 `db:"current_price"`
	TrendScore      float64 `db:"trend_score"`
	VolatilityScore float64 `db:"volatility_score"`
	VolumeScore     float64 `db:"volume_score"`
	RangeScore      float64 `db:"range_score"`
	TotalScore      float64 `db:"total_score"`
	Direction       string  `db:"direction"`
	Confidence      float64 `db:"confidence"`
	Timeframe       string  `db:"timeframe"`
	TargetPrice     float64 `db:"target_price"`
	RiskLevel       string  `db:"risk_level"`
	Notes           string  `db:"notes"`
	Synthetic       bool    `db:"synthetic"`
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordPrediction(evt *PredictionEvent) error
	RecordSentiment(res *model.SentimentResult) error
	RecordAlert(evt *AlertEvent) error
	RecentPredictions(symbol string, limit int) ([]PredictionRow, error)
	Close() error
}
