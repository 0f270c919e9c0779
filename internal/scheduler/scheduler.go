package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/portfolio"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/sentiment"
	"CryptoSentinel/internal/session"
	"CryptoSentinel/internal/strategy"
	"CryptoSentinel/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Scheduler runs evaluation passes against an explicitly owned session state.
// Cron jobs, chat commands and start-up passes all go through mu, so passes never overlap.
type Scheduler struct {
	mu sync.Mutex

	Cron      *cron.Cron
	Collector *collector.Collector
	Scorer    *sentiment.Scorer
	State     *session.State
	Portfolio *portfolio.Manager // optional
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Params    calculator.Params
	Symbols   []string
	Headlines []string
	Now       func() time.Time
	Ctx       context.Context
}

// PassResult is everything one refresh pass produced for a symbol.
type PassResult struct {
	Quote      collector.Quote
	Indicators model.IndicatorSet
	Factors    model.ScoreFactors
	Prediction model.Prediction
}

// NewScheduler creates a Scheduler. Passes never overlap: a tick that fires while the
// previous run of the same job is still going is skipped.
func NewScheduler(ctx context.Context, col *collector.Collector, scorer *sentiment.Scorer, state *session.State, n notifier.Notifier, rec recorder.Recorder) *Scheduler {
	cl := cronLogger{logger.Log.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Scorer:    scorer,
		State:     state,
		Notifier:  n,
		Recorder:  rec,
		Params:    calculator.DefaultParams(),
		Now:       time.Now,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh and sentiment jobs.
func (s *Scheduler) RegisterAll(refreshCron, sentimentCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.RefreshAll(s.Ctx) }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(sentimentCron, func() { s.SentimentPass(s.Ctx) }); err != nil {
		return fmt.Errorf("register sentiment task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RefreshPass runs collect → indicators → score → classify for one symbol and records the prediction.
func (s *Scheduler) RefreshPass(ctx context.Context, symbol string) (*PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshPass(ctx, symbol)
}

func (s *Scheduler) refreshPass(ctx context.Context, symbol string) (*PassResult, error) {
	series := s.State.Series(symbol)
	quote, err := s.Collector.Collect(ctx, symbol, series)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}

	now := s.Now()
	ind := calculator.Compute(series, s.Params)
	pred, factors := strategy.Evaluate(symbol, strategy.Input{
		CurrentPrice: quote.Price,
		Stats:        quote.Stats,
		Prices:       series.Prices(),
	}, now)
	s.State.RecordPrediction(pred)

	if err := s.Recorder.RecordPrediction(&recorder.PredictionEvent{
		Prediction:   pred,
		Factors:      factors,
		CurrentPrice: quote.Price,
		Synthetic:    quote.Synthetic(),
	}); err != nil {
		logger.Error("record prediction", zap.String("symbol", symbol), zap.Error(err))
	}

	logger.Info("prediction",
		zap.String("symbol", symbol),
		zap.String("direction", string(pred.Direction)),
		zap.Float64("confidence", pred.Confidence),
		zap.Float64("score", factors.Total),
		zap.Bool("synthetic", quote.Synthetic()),
	)
	return &PassResult{Quote: quote, Indicators: ind, Factors: factors, Prediction: pred}, nil
}

// RefreshAll refreshes every tracked symbol, then evaluates alerts.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sym := range s.Symbols {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.refreshPass(ctx, sym); err != nil {
			logger.Error("refresh pass", zap.String("symbol", sym), zap.Error(err))
		}
	}
	s.alertPass(ctx)
}

// AlertPass fetches the current price of every symbol with an armed alert, latches the
// alerts against those prices, then notifies and records the newly triggered ones.
func (s *Scheduler) AlertPass(ctx context.Context) []model.PriceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alertPass(ctx)
}

func (s *Scheduler) alertPass(ctx context.Context) []model.PriceAlert {
	if s.Portfolio != nil && s.Portfolio.Changed() {
		s.persistSession()
	}

	prices := s.currentPrices(ctx)
	fired := s.State.EvaluateAlerts(prices, s.Now())
	for i := range fired {
		a := &fired[i]
		price := prices[a.Symbol]
		logger.Info("alert triggered",
			zap.String("id", a.ID),
			zap.String("symbol", a.Symbol),
			zap.String("condition", string(a.Condition)),
			zap.String("threshold", a.Threshold.String()),
			zap.String("price", price.String()),
		)
		s.trySend(ctx, notifier.FormatAlert(a, price))
		if err := s.Recorder.RecordAlert(&recorder.AlertEvent{Alert: *a, Price: price}); err != nil {
			logger.Error("record alert", zap.Error(err))
		}
	}
	if len(fired) > 0 {
		s.persistSession()
	}
	return fired
}

// currentPrices quotes each symbol that has an armed alert.
func (s *Scheduler) currentPrices(ctx context.Context) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal)
	for _, a := range s.State.Alerts() {
		if a.Triggered {
			continue
		}
		if _, done := prices[a.Symbol]; done {
			continue
		}
		var last *decimal.Decimal
		if p, ok := s.State.LastPrice(a.Symbol); ok {
			last = &p
		}
		p, _, err := s.Collector.CurrentPrice(ctx, a.Symbol, last)
		if err != nil {
			logger.Warn("alert price", zap.String("symbol", a.Symbol), zap.Error(err))
			continue
		}
		prices[a.Symbol] = p
	}
	return prices
}

// SentimentPass scores the configured headlines and returns their summary.
func (s *Scheduler) SentimentPass(ctx context.Context) model.SentimentSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentimentPass(ctx)
}

func (s *Scheduler) sentimentPass(_ context.Context) model.SentimentSummary {
	results := s.Scorer.ScoreMany(s.Headlines)
	for i := range results {
		s.State.RecordSentiment(results[i])
		if err := s.Recorder.RecordSentiment(&results[i]); err != nil {
			logger.Error("record sentiment", zap.Error(err))
		}
	}
	sum := sentiment.Summarize(results)
	logger.Info("sentiment",
		zap.String("label", string(sum.Label)),
		zap.Float64("polarity", sum.Polarity),
		zap.Int("sources", sum.Count),
	)
	return sum
}

func (s *Scheduler) persistSession() {
	if s.Portfolio == nil {
		return
	}
	merged, err := s.Portfolio.SyncSession(s.State.Export())
	if err != nil {
		logger.Error("persist session", zap.Error(err))
		return
	}
	s.State.Restore(merged)
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.Send(ctx, text); err != nil {
		logger.Error("send notification", zap.Error(err))
	}
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
