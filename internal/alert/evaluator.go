package alert

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("alert not found")
	ErrInvalidCondition = errors.New("invalid alert condition")
	ErrInvalidThreshold = errors.New("alert threshold must be positive")
)

// NewAlert validates and creates an untriggered alert.
func NewAlert(symbol string, cond model.AlertCondition, threshold decimal.Decimal, now time.Time) (*model.PriceAlert, error) {
	switch cond {
	case model.ConditionAbove, model.ConditionBelow:
	default:
		return nil, fmt.Errorf("%q: %w", cond, ErrInvalidCondition)
	}
	if !threshold.IsPositive() {
		return nil, fmt.Errorf("%s: %w", threshold, ErrInvalidThreshold)
	}
	return &model.PriceAlert{
		ID:        uuid.NewString(),
		Symbol:    strings.ToUpper(symbol),
		Condition: cond,
		Threshold: threshold,
		CreatedAt: now,
	}, nil
}

// Hit reports whether price satisfies the alert condition. Both comparisons are inclusive.
func Hit(a *model.PriceAlert, price decimal.Decimal) bool {
	switch a.Condition {
	case model.ConditionAbove:
		return price.GreaterThanOrEqual(a.Threshold)
	case model.ConditionBelow:
		return price.LessThanOrEqual(a.Threshold)
	}
	return false
}

// Evaluate latches every untriggered alert whose condition holds and returns
// copies of the ones that triggered during this pass. Alerts without a price are skipped.
func Evaluate(prices map[string]decimal.Decimal, alerts []*model.PriceAlert, now time.Time) []model.PriceAlert {
	var fired []model.PriceAlert
	for _, a := range alerts {
		if a.Triggered {
			continue
		}
		price, ok := prices[a.Symbol]
		if !ok || !Hit(a, price) {
			continue
		}
		at := now
		a.Triggered = true
		a.TriggeredAt = &at
		fired = append(fired, *a)
	}
	return fired
}

// Remove deletes the alert with id and returns the shortened slice.
func Remove(alerts []*model.PriceAlert, id string) ([]*model.PriceAlert, error) {
	for i, a := range alerts {
		if a.ID == id {
			return append(alerts[:i], alerts[i+1:]...), nil
		}
	}
	return alerts, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Reset clears the triggered latch so the alert can fire again.
func Reset(alerts []*model.PriceAlert, id string) error {
	for _, a := range alerts {
		if a.ID == id {
			a.Triggered = false
			a.TriggeredAt = nil
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, ErrNotFound)
}
