package portfolio

import (
	"errors"
	"math"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

func TestManager_PersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if wl := m.GetState().Watchlist; len(wl) != len(DefaultWatchlist) {
		t.Errorf("fresh watchlist = %v", wl)
	}

	h, err := m.AddHolding("btcusdt", decimal.NewFromFloat(0.5), decimal.NewFromInt(40000), time.Now())
	if err != nil {
		t.Fatalf("AddHolding: %v", err)
	}
	alerts := []model.PriceAlert{{ID: "a1", Symbol: "BTCUSDT", Condition: model.ConditionAbove, Threshold: decimal.NewFromInt(50000)}}
	if _, err := m.SyncSession(model.UserState{Alerts: alerts, Watchlist: []string{"SOLUSDT"}}); err != nil {
		t.Fatalf("SyncSession: %v", err)
	}

	reopened, err := NewManager(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	st := reopened.GetState()
	if len(st.Holdings) != 1 || st.Holdings[0].ID != h.ID || st.Holdings[0].Symbol != "BTCUSDT" {
		t.Errorf("holdings after reopen = %+v", st.Holdings)
	}
	if len(st.Alerts) != 1 || !st.Alerts[0].Threshold.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("alerts after reopen = %+v", st.Alerts)
	}
	if len(st.Watchlist) != 1 || st.Watchlist[0] != "SOLUSDT" {
		t.Errorf("watchlist after reopen = %v", st.Watchlist)
	}

	if err := reopened.RemoveHolding(h.ID); err != nil {
		t.Fatalf("RemoveHolding: %v", err)
	}
	if err := reopened.RemoveHolding(h.ID); !errors.Is(err, ErrHoldingNotFound) {
		t.Errorf("second remove err = %v, want ErrHoldingNotFound", err)
	}
}

func TestManager_RejectsInvalidHolding(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "p.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddHolding("ETHUSDT", decimal.Zero, decimal.NewFromInt(1), time.Now()); !errors.Is(err, ErrInvalidHolding) {
		t.Errorf("err = %v, want ErrInvalidHolding", err)
	}
}

func TestValuate(t *testing.T) {
	holdings := []model.Holding{
		{Symbol: "BTCUSDT", Quantity: decimal.NewFromInt(2), BuyPrice: decimal.NewFromInt(40000)},
		{Symbol: "ETHUSDT", Quantity: decimal.NewFromInt(10), BuyPrice: decimal.NewFromInt(3000)},
		{Symbol: "DOGEUSDT", Quantity: decimal.NewFromInt(1000), BuyPrice: decimal.NewFromFloat(0.2)},
	}
	prices := map[string]decimal.Decimal{
		"BTCUSDT": decimal.NewFromInt(45000),
		"ETHUSDT": decimal.NewFromInt(2400),
	}

	sum := Valuate(holdings, prices)

	if !sum.TotalInvested.Equal(decimal.NewFromInt(110200)) {
		t.Errorf("invested = %s, want 110200", sum.TotalInvested)
	}
	if !sum.TotalValue.Equal(decimal.NewFromInt(114200)) {
		t.Errorf("value = %s, want 114200", sum.TotalValue)
	}
	if !sum.TotalPnL.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("pnl = %s, want 4000", sum.TotalPnL)
	}
	if math.Abs(sum.Positions[0].PnLPercent-12.5) > 1e-9 {
		t.Errorf("btc pnl%% = %.4f, want 12.5", sum.Positions[0].PnLPercent)
	}
	if math.Abs(sum.Positions[1].PnLPercent+20) > 1e-9 {
		t.Errorf("eth pnl%% = %.4f, want -20", sum.Positions[1].PnLPercent)
	}
	if !sum.Positions[2].PnL.IsZero() {
		t.Errorf("unpriced holding pnl = %s, want 0", sum.Positions[2].PnL)
	}

	if empty := Valuate(nil, prices); empty.PnLPercent != 0 || !empty.TotalValue.IsZero() {
		t.Errorf("empty valuation = %+v", empty)
	}
}

func TestManager_SharedFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s1 := model.PriceAlert{ID: "s1", Symbol: "BTCUSDT", Condition: model.ConditionAbove, Threshold: decimal.NewFromInt(50000)}

	server, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := server.SyncSession(model.UserState{Alerts: []model.PriceAlert{s1}, Watchlist: DefaultWatchlist}); err != nil {
		t.Fatalf("SyncSession: %v", err)
	}

	// A second process adds a holding, an alert and a watchlist symbol.
	cli, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := cli.AddHolding("ETHUSDT", decimal.NewFromInt(1), decimal.NewFromInt(2500), ts); err != nil {
		t.Fatalf("AddHolding: %v", err)
	}
	c1 := model.PriceAlert{ID: "c1", Symbol: "ADAUSDT", Condition: model.ConditionBelow, Threshold: decimal.NewFromFloat(0.4)}
	cliState := cli.GetState()
	if _, err := cli.SyncSession(model.UserState{
		Alerts:    append(cliState.Alerts, c1),
		Watchlist: append(cliState.Watchlist, "SOLUSDT"),
	}); err != nil {
		t.Fatalf("cli SyncSession: %v", err)
	}

	if !server.Changed() {
		t.Error("server did not notice the file changed")
	}

	fired := s1
	fired.Triggered, fired.TriggeredAt = true, &ts
	merged, err := server.SyncSession(model.UserState{
		Alerts:    []model.PriceAlert{fired},
		Watchlist: append(slices.Clone(DefaultWatchlist), "DOGEUSDT"),
	})
	if err != nil {
		t.Fatalf("server SyncSession: %v", err)
	}
	if server.Changed() {
		t.Error("Changed after own write")
	}
	if len(merged.Alerts) != 2 || merged.Alerts[0].ID != "s1" || !merged.Alerts[0].Triggered || merged.Alerts[1].ID != "c1" {
		t.Errorf("merged alerts = %+v", merged.Alerts)
	}
	if !slices.Contains(merged.Watchlist, "SOLUSDT") || !slices.Contains(merged.Watchlist, "DOGEUSDT") {
		t.Errorf("merged watchlist = %v", merged.Watchlist)
	}

	onDisk, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(onDisk.Holdings) != 1 || onDisk.Holdings[0].Symbol != "ETHUSDT" {
		t.Errorf("holdings on disk = %+v", onDisk.Holdings)
	}

	// The second process resets s1 and removes c1; the server still holds its old view.
	cli, err = NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cli.SyncSession(model.UserState{Alerts: []model.PriceAlert{s1}, Watchlist: merged.Watchlist}); err != nil {
		t.Fatal(err)
	}
	merged, err = server.SyncSession(model.UserState{Alerts: merged.Alerts, Watchlist: merged.Watchlist})
	if err != nil {
		t.Fatal(err)
	}
	if len(merged.Alerts) != 1 || merged.Alerts[0].ID != "s1" || merged.Alerts[0].Triggered {
		t.Errorf("alerts after external reset/remove = %+v", merged.Alerts)
	}
}
