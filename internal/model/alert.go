package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertCondition selects the comparison of a price alert.
type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

// PriceAlert is a user-defined threshold rule. Triggered is a latch: it stays set until reset.
type PriceAlert struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Condition   AlertCondition  `json:"condition"`
	Threshold   decimal.Decimal `json:"threshold"`
	Triggered   bool            `json:"triggered"`
	TriggeredAt *time.Time      `json:"triggered_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
