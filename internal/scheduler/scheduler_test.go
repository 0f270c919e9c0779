package scheduler

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/portfolio"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/sentiment"
	"CryptoSentinel/internal/session"

	"github.com/shopspring/decimal"
)

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

type fakeRecorder struct {
	recorder.NoopRecorder
	predictions []*recorder.PredictionEvent
	alerts      []*recorder.AlertEvent
	sentiments  int
}

func (f *fakeRecorder) RecordPrediction(evt *recorder.PredictionEvent) error {
	f.predictions = append(f.predictions, evt)
	return nil
}

func (f *fakeRecorder) RecordAlert(evt *recorder.AlertEvent) error {
	f.alerts = append(f.alerts, evt)
	return nil
}

func (f *fakeRecorder) RecordSentiment(*model.SentimentResult) error {
	f.sentiments++
	return nil
}

var symbols = map[string]model.SymbolInfo{
	"X":       {Symbol: "X", Name: "Test", BaselinePrice: 100},
	"BTCUSDT": {Symbol: "BTCUSDT", Name: "Bitcoin", BaselinePrice: 45000},
}

func newTestScheduler(t *testing.T, f *collector.MockFetcher) (*Scheduler, *fakeNotifier, *fakeRecorder) {
	t.Helper()
	col := collector.NewCollector(f, collector.NewSynthesizer(rand.New(rand.NewSource(1))), symbols)
	n := &fakeNotifier{}
	rec := &fakeRecorder{}
	s := NewScheduler(context.Background(), col, sentiment.NewScorer(sentiment.DefaultConfig()), session.New(session.Options{}), n, rec)
	s.Symbols = []string{"X"}
	s.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, n, rec
}

func stats(high, low, volume, pct float64) model.Stats24h {
	return model.Stats24h{
		High:               decimal.NewFromFloat(high),
		Low:                decimal.NewFromFloat(low),
		Volume:             decimal.NewFromFloat(volume),
		PriceChangePercent: decimal.NewFromFloat(pct),
	}
}

func TestRefreshPass_RisingSeries(t *testing.T) {
	f := &collector.MockFetcher{
		Prices: map[string]decimal.Decimal{},
		Stats:  map[string]model.Stats24h{"X": stats(105, 99, 12_000_000, 4.0)},
	}
	s, _, rec := newTestScheduler(t, f)

	var res *PassResult
	for p := 100; p <= 104; p++ {
		f.Prices["X"] = decimal.NewFromInt(int64(p))
		var err error
		res, err = s.RefreshPass(context.Background(), "X")
		if err != nil {
			t.Fatalf("RefreshPass: %v", err)
		}
	}

	if res.Prediction.Direction != model.DirectionStrongUp || res.Prediction.Confidence != 98 {
		t.Errorf("prediction = %s %.1f, want STRONG_UP 98", res.Prediction.Direction, res.Prediction.Confidence)
	}
	if res.Quote.Synthetic() {
		t.Error("live quote reported synthetic")
	}
	if !res.Indicators.MovingAverage[5].Available || res.Indicators.MovingAverage[5].Value != 102 {
		t.Errorf("MA5 = %+v, want 102", res.Indicators.MovingAverage[5])
	}
	if res.Indicators.RSI.Available {
		t.Error("RSI should be unavailable with 5 observations")
	}
	if got := len(s.State.Predictions()); got != 5 {
		t.Errorf("prediction history = %d, want 5", got)
	}
	if len(rec.predictions) != 5 {
		t.Errorf("recorded predictions = %d, want 5", len(rec.predictions))
	}
}

func TestRefreshAll_AlertsFireOnce(t *testing.T) {
	f := &collector.MockFetcher{
		Prices: map[string]decimal.Decimal{"X": decimal.NewFromInt(99)},
		Stats:  map[string]model.Stats24h{"X": stats(110, 90, 1_000_000, 1)},
	}
	s, n, rec := newTestScheduler(t, f)
	if _, err := s.AddAlert("x", "above", "100"); err != nil {
		t.Fatalf("AddAlert: %v", err)
	}

	for _, p := range []int64{99, 100, 150} {
		f.Prices["X"] = decimal.NewFromInt(p)
		s.RefreshAll(context.Background())
	}

	if len(n.sent) != 1 || !strings.Contains(n.sent[0], "X is above $100.00") {
		t.Errorf("notifications = %q", n.sent)
	}
	if len(rec.alerts) != 1 || !rec.alerts[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("recorded alerts = %+v", rec.alerts)
	}
	if !s.State.Alerts()[0].Triggered {
		t.Error("alert not latched")
	}
}

func TestRefreshPass_UpstreamDown(t *testing.T) {
	f := &collector.MockFetcher{Err: collector.ErrUnavailable}
	s, _, rec := newTestScheduler(t, f)

	res, err := s.RefreshPass(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("RefreshPass: %v", err)
	}
	if !res.Quote.Synthetic() || !rec.predictions[0].Synthetic {
		t.Error("synthetic substitution not reported")
	}
	if _, err := s.RefreshPass(context.Background(), "NOPE"); err == nil {
		t.Error("unknown symbol should fail")
	}
}

func TestSentimentPass(t *testing.T) {
	s, _, rec := newTestScheduler(t, &collector.MockFetcher{})
	s.Headlines = []string{"moon rocket", "", "exchange hack and crash"}

	sum := s.SentimentPass(context.Background())
	if sum.Count != 3 || rec.sentiments != 3 || len(s.State.Sentiments()) != 3 {
		t.Errorf("count=%d recorded=%d history=%d", sum.Count, rec.sentiments, len(s.State.Sentiments()))
	}
	if sum.Results[1].Label != model.Neutral {
		t.Errorf("empty headline label = %s", sum.Results[1].Label)
	}
}

func TestHandleCommand(t *testing.T) {
	f := &collector.MockFetcher{
		Prices: map[string]decimal.Decimal{"X": decimal.NewFromInt(100)},
		Stats:  map[string]model.Stats24h{"X": stats(110, 90, 6_000_000, 2)},
	}
	s, _, _ := newTestScheduler(t, f)
	pm, err := portfolio.NewManager(filepath.Join(t.TempDir(), "p.json"))
	if err != nil {
		t.Fatal(err)
	}
	s.Portfolio = pm
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "predict", "x"); !strings.Contains(got, "<b>X</b>") {
		t.Errorf("predict reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "alert", "X below 50"); !strings.Contains(got, "alert") || !strings.HasPrefix(got, "✅") {
		t.Errorf("alert reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "alert", "X sideways 50"); !strings.HasPrefix(got, "❌") {
		t.Errorf("bad alert reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "alerts", ""); !strings.Contains(got, "below $50.00") {
		t.Errorf("alerts reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "watch", "btcusdt"); !strings.Contains(got, "BTCUSDT") {
		t.Errorf("watch reply = %q", got)
	}
	if len(pm.GetState().Alerts) != 1 || len(pm.GetState().Watchlist) != 1 {
		t.Errorf("session not persisted: %+v", pm.GetState())
	}

	if _, err := pm.AddHolding("X", decimal.NewFromInt(2), decimal.NewFromInt(80), time.Now()); err != nil {
		t.Fatal(err)
	}
	if got := s.HandleCommand(ctx, "portfolio", ""); !strings.Contains(got, "+$40.00") {
		t.Errorf("portfolio reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "help", ""); got != helpText {
		t.Errorf("help reply = %q", got)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{})
	if err := s.RegisterAll("*/10 * * * * *", "0 */15 * * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if len(s.Cron.Entries()) != 2 {
		t.Errorf("entries = %d, want 2", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("not a spec", "0 */15 * * * *"); err == nil {
		t.Error("expected error for bad cron spec")
	}
}

func TestAlertPass_QuotesAlertSymbols(t *testing.T) {
	ctx := context.Background()

	t.Run("untracked symbol", func(t *testing.T) {
		f := &collector.MockFetcher{Prices: map[string]decimal.Decimal{
			"X":       decimal.NewFromInt(100),
			"BTCUSDT": decimal.NewFromInt(60000),
		}}
		s, n, _ := newTestScheduler(t, f)
		if _, err := s.AddAlert("BTCUSDT", "above", "50000"); err != nil {
			t.Fatalf("AddAlert: %v", err)
		}
		s.RefreshAll(ctx)
		if !s.State.Alerts()[0].Triggered || len(n.sent) != 1 {
			t.Errorf("alert on untracked symbol not evaluated: %+v sent=%d", s.State.Alerts()[0], len(n.sent))
		}
	})

	t.Run("stale series", func(t *testing.T) {
		f := &collector.MockFetcher{Prices: map[string]decimal.Decimal{
			"X":       decimal.NewFromInt(100),
			"BTCUSDT": decimal.NewFromInt(40000),
		}}
		s, _, _ := newTestScheduler(t, f)
		s.HandleCommand(ctx, "predict", "BTCUSDT")

		f.Prices["BTCUSDT"] = decimal.NewFromInt(60000)
		if _, err := s.AddAlert("BTCUSDT", "below", "45000"); err != nil {
			t.Fatalf("AddAlert: %v", err)
		}
		s.RefreshAll(ctx)
		if s.State.Alerts()[0].Triggered {
			t.Error("alert evaluated against the stale series price")
		}
	})
}

func TestAlertPass_AdoptsAlertsWrittenElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	f := &collector.MockFetcher{Prices: map[string]decimal.Decimal{"X": decimal.NewFromInt(120)}}
	s, n, _ := newTestScheduler(t, f)
	pm, err := portfolio.NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Portfolio = pm

	other, err := portfolio.NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	added := model.PriceAlert{ID: "ext", Symbol: "X", Condition: model.ConditionAbove, Threshold: decimal.NewFromInt(100)}
	if _, err := other.SyncSession(model.UserState{Alerts: []model.PriceAlert{added}, Watchlist: other.GetState().Watchlist}); err != nil {
		t.Fatal(err)
	}

	s.RefreshAll(context.Background())

	alerts := s.State.Alerts()
	if len(alerts) != 1 || alerts[0].ID != "ext" || !alerts[0].Triggered || len(n.sent) != 1 {
		t.Errorf("alerts = %+v sent = %d", alerts, len(n.sent))
	}
	if st := pm.GetState(); len(st.Alerts) != 1 || !st.Alerts[0].Triggered {
		t.Errorf("persisted alerts = %+v", st.Alerts)
	}
}

func TestScheduler_PassesDoNotOverlap(t *testing.T) {
	f := &collector.MockFetcher{
		Prices: map[string]decimal.Decimal{"X": decimal.NewFromInt(100)},
		Stats:  map[string]model.Stats24h{"X": stats(110, 90, 6_000_000, 2)},
	}
	s, _, rec := newTestScheduler(t, f)
	if _, err := s.AddAlert("X", "above", "1000"); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	const loops = 20
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < loops; i++ {
			s.HandleCommand(ctx, "predict", "X")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < loops; i++ {
			s.RefreshAll(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < loops; i++ {
			s.AlertPass(ctx)
			s.State.LastPrices()
		}
	}()
	wg.Wait()

	if len(rec.predictions) != 2*loops {
		t.Errorf("recorded predictions = %d, want %d", len(rec.predictions), 2*loops)
	}
	if got := s.State.Series("X").Len(); got != 2*loops {
		t.Errorf("series len = %d", got)
	}
}
