package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"CryptoSentinel/internal/alert"
	"CryptoSentinel/internal/model"

	"github.com/shopspring/decimal"
)

const (
	DefaultPredictionCap = 10
	DefaultSentimentCap  = 10
)

// Options sets the history caps. Zero values fall back to the defaults.
type Options struct {
	SeriesCap     int
	PredictionCap int
	SentimentCap  int
	LogCap        int
}

func (o Options) withDefaults() Options {
	if o.SeriesCap <= 0 {
		o.SeriesCap = model.DefaultSeriesCap
	}
	if o.PredictionCap <= 0 {
		o.PredictionCap = DefaultPredictionCap
	}
	if o.SentimentCap <= 0 {
		o.SentimentCap = DefaultSentimentCap
	}
	if o.LogCap <= 0 {
		o.LogCap = DefaultLogCap
	}
	return o
}

// State is the dashboard state owned by one process and passed to every evaluation pass.
// The map and histories are guarded by mu; each PriceSeries carries its own lock.
type State struct {
	mu          sync.Mutex
	opts        Options
	series      map[string]*model.PriceSeries
	predictions *model.History[model.Prediction]
	sentiments  *model.History[model.SentimentResult]
	alerts      []*model.PriceAlert
	watchlist   []string

	Logs *LogBuffer
}

func New(opts Options) *State {
	opts = opts.withDefaults()
	return &State{
		opts:        opts,
		series:      make(map[string]*model.PriceSeries),
		predictions: model.NewHistory[model.Prediction](opts.PredictionCap),
		sentiments:  model.NewHistory[model.SentimentResult](opts.SentimentCap),
		Logs:        NewLogBuffer(opts.LogCap),
	}
}

// Series returns the series for symbol, creating it on first use.
func (s *State) Series(symbol string) *model.PriceSeries {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.series[symbol]
	if !ok {
		ps = model.NewPriceSeries(symbol, s.opts.SeriesCap)
		s.series[symbol] = ps
	}
	return ps
}

// LastPrices returns the newest observed price per symbol.
func (s *State) LastPrices() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(s.series))
	for sym, ps := range s.series {
		if o, ok := ps.Last(); ok {
			out[sym] = o.Price
		}
	}
	return out
}

// LastPrice returns the newest observed price of symbol, if it has a series.
func (s *State) LastPrice(symbol string) (decimal.Decimal, bool) {
	s.mu.Lock()
	ps, ok := s.series[symbol]
	s.mu.Unlock()
	if !ok {
		return decimal.Decimal{}, false
	}
	o, ok := ps.Last()
	return o.Price, ok
}

func (s *State) RecordPrediction(p model.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions.Append(p)
}

// Predictions returns the prediction history, oldest first.
func (s *State) Predictions() []model.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.predictions.Items()
}

func (s *State) RecordSentiment(r model.SentimentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentiments.Append(r)
}

func (s *State) Sentiments() []model.SentimentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentiments.Items()
}

func (s *State) AddAlert(a *model.PriceAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
}

func (s *State) RemoveAlert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts, err := alert.Remove(s.alerts, id)
	if err != nil {
		return err
	}
	s.alerts = alerts
	return nil
}

func (s *State) ResetAlert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return alert.Reset(s.alerts, id)
}

// Alerts returns copies of all alert rules.
func (s *State) Alerts() []model.PriceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PriceAlert, len(s.alerts))
	for i, a := range s.alerts {
		out[i] = *a
	}
	return out
}

// EvaluateAlerts latches alerts against prices and returns the ones that fired now.
func (s *State) EvaluateAlerts(prices map[string]decimal.Decimal, now time.Time) []model.PriceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return alert.Evaluate(prices, s.alerts, now)
}

// Watch adds symbol to the watchlist. Returns false if it was already there.
func (s *State) Watch(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.watchlist, symbol) {
		return false
	}
	s.watchlist = append(s.watchlist, symbol)
	return true
}

func (s *State) Unwatch(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.watchlist, symbol)
	if i < 0 {
		return false
	}
	s.watchlist = slices.Delete(s.watchlist, i, i+1)
	return true
}

func (s *State) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.watchlist)
}

// Restore loads persisted alerts and watchlist, replacing the current ones.
func (s *State) Restore(us model.UserState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = s.alerts[:0]
	for i := range us.Alerts {
		a := us.Alerts[i]
		s.alerts = append(s.alerts, &a)
	}
	s.watchlist = slices.Clone(us.Watchlist)
}

// Export returns the persistable part of the state. Holdings are owned by the portfolio manager.
func (s *State) Export() model.UserState {
	return model.UserState{Alerts: s.Alerts(), Watchlist: s.Watchlist()}
}
