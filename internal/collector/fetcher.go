package collector

import (
	"context"
	"errors"

	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// ErrUnavailable marks any upstream failure: transport error, timeout, non-200 status or bad payload.
var ErrUnavailable = errors.New("upstream unavailable")

// Fetcher defines the interface for fetching live market data.
type Fetcher interface {
	FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Fetch24hStats(ctx context.Context, symbol string) (model.Stats24h, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
// A non-nil Err makes every call fail with it.
type MockFetcher struct {
	Prices map[string]decimal.Decimal
	Stats  map[string]model.Stats24h
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	p, ok := m.Prices[symbol]
	if !ok {
		return decimal.Zero, ErrUnavailable
	}
	return p, nil
}

func (m *MockFetcher) Fetch24hStats(_ context.Context, symbol string) (model.Stats24h, error) {
	if m.Err != nil {
		return model.Stats24h{}, m.Err
	}
	s, ok := m.Stats[symbol]
	if !ok {
		return model.Stats24h{}, ErrUnavailable
	}
	return s, nil
}
