package portfolio

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrHoldingNotFound = errors.New("holding not found")
	ErrInvalidHolding  = errors.New("quantity and buy price must be positive")
)

// DefaultWatchlist seeds a fresh state file.
var DefaultWatchlist = []string{"BTCUSDT", "ETHUSDT", "ADAUSDT"}

// Manager owns the persisted user state: holdings, alert rules and watchlist.
// Several processes may share the file (serve and one-shot CLI commands), so every
// write re-reads it first and merges.
type Manager struct {
	mu       sync.Mutex
	state    *model.UserState
	filePath string
	stamp    fileStamp
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load portfolio state: %w", err)
	}

	// Initialize if fresh state
	if state.UpdatedAt.IsZero() && state.Watchlist == nil {
		state.Watchlist = slices.Clone(DefaultWatchlist)
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current user state.
func (m *Manager) GetState() model.UserState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() model.UserState {
	s := *m.state
	s.Holdings = slices.Clone(m.state.Holdings)
	s.Alerts = slices.Clone(m.state.Alerts)
	s.Watchlist = slices.Clone(m.state.Watchlist)
	return s
}

// AddHolding records a position and persists it.
func (m *Manager) AddHolding(symbol string, quantity, buyPrice decimal.Decimal, now time.Time) (model.Holding, error) {
	if !quantity.IsPositive() || !buyPrice.IsPositive() {
		return model.Holding{}, ErrInvalidHolding
	}
	h := model.Holding{
		ID:       uuid.NewString(),
		Symbol:   strings.ToUpper(symbol),
		Quantity: quantity,
		BuyPrice: buyPrice,
		AddedAt:  now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reload(); err != nil {
		return model.Holding{}, err
	}
	m.state.Holdings = append(m.state.Holdings, h)
	if err := m.save(); err != nil {
		return model.Holding{}, err
	}
	logger.Info("holding added",
		zap.String("symbol", h.Symbol),
		zap.String("quantity", h.Quantity.String()),
		zap.String("buy_price", h.BuyPrice.String()),
	)
	return h, nil
}

// RemoveHolding deletes the holding with id.
func (m *Manager) RemoveHolding(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reload(); err != nil {
		return err
	}
	i := slices.IndexFunc(m.state.Holdings, func(h model.Holding) bool { return h.ID == id })
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrHoldingNotFound)
	}
	m.state.Holdings = slices.Delete(m.state.Holdings, i, i+1)
	return m.save()
}

// SyncSession merges the live session's alert rules and watchlist with the file and
// persists the result. The merged state is returned so the session can adopt rules
// written by another process.
func (m *Manager) SyncSession(us model.UserState) (model.UserState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := m.state
	disk, err := LoadState(m.filePath)
	if err != nil {
		return model.UserState{}, fmt.Errorf("load portfolio state: %w", err)
	}
	disk.Alerts = mergeAlerts(base.Alerts, disk.Alerts, us.Alerts)
	disk.Watchlist = mergeWatchlist(base.Watchlist, disk.Watchlist, us.Watchlist)
	m.state = disk
	if err := m.save(); err != nil {
		return model.UserState{}, err
	}
	return m.snapshot(), nil
}

// Changed reports whether another process wrote the state file since this manager
// last read or wrote it.
func (m *Manager) Changed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, err := statFile(m.filePath)
	if err != nil {
		return false
	}
	return !st.same(m.stamp)
}

// Valuate marks every holding to prices. A holding without a price is valued at its buy price.
func (m *Manager) Valuate(prices map[string]decimal.Decimal) model.PortfolioSummary {
	m.mu.Lock()
	holdings := slices.Clone(m.state.Holdings)
	m.mu.Unlock()
	return Valuate(holdings, prices)
}

// Valuate computes per-holding and total invested, current value and P&L.
func Valuate(holdings []model.Holding, prices map[string]decimal.Decimal) model.PortfolioSummary {
	sum := model.PortfolioSummary{
		TotalInvested: decimal.Zero,
		TotalValue:    decimal.Zero,
		TotalPnL:      decimal.Zero,
	}
	for _, h := range holdings {
		price, ok := prices[h.Symbol]
		if !ok {
			price = h.BuyPrice
		}
		v := model.HoldingValuation{
			Holding:      h,
			CurrentPrice: price,
			Invested:     h.Quantity.Mul(h.BuyPrice),
			CurrentValue: h.Quantity.Mul(price),
		}
		v.PnL = v.CurrentValue.Sub(v.Invested)
		v.PnLPercent = percentOf(v.PnL, v.Invested)

		sum.Positions = append(sum.Positions, v)
		sum.TotalInvested = sum.TotalInvested.Add(v.Invested)
		sum.TotalValue = sum.TotalValue.Add(v.CurrentValue)
	}
	sum.TotalPnL = sum.TotalValue.Sub(sum.TotalInvested)
	sum.PnLPercent = percentOf(sum.TotalPnL, sum.TotalInvested)
	return sum
}

func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return model.ToFloat64(part.Div(whole).Mul(decimal.NewFromInt(100)))
}

// reload replaces the in-memory state with the file's current content.
func (m *Manager) reload() error {
	state, err := LoadState(m.filePath)
	if err != nil {
		return fmt.Errorf("load portfolio state: %w", err)
	}
	m.state = state
	return nil
}

func (m *Manager) save() error {
	if err := SaveState(m.filePath, m.state); err != nil {
		return fmt.Errorf("save portfolio state: %w", err)
	}
	if st, err := statFile(m.filePath); err == nil {
		m.stamp = st
	}
	return nil
}
