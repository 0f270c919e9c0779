package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is one portfolio position entered by the user.
type Holding struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	AddedAt  time.Time       `json:"added_at"`
}

// UserState is everything the user entered that survives restarts.
type UserState struct {
	Holdings  []Holding    `json:"holdings"`
	Alerts    []PriceAlert `json:"alerts"`
	Watchlist []string     `json:"watchlist"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// HoldingValuation is a holding marked to the current price.
type HoldingValuation struct {
	Holding      Holding
	CurrentPrice decimal.Decimal
	Invested     decimal.Decimal
	CurrentValue decimal.Decimal
	PnL          decimal.Decimal
	PnLPercent   float64
}

// PortfolioSummary totals all valuations.
type PortfolioSummary struct {
	Positions     []HoldingValuation
	TotalInvested decimal.Decimal
	TotalValue    decimal.Decimal
	TotalPnL      decimal.Decimal
	PnLPercent    float64
}
