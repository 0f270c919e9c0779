package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/portfolio"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/scheduler"
	"CryptoSentinel/internal/sentiment"
	"CryptoSentinel/internal/session"
	"CryptoSentinel/pkg/logger"

	"go.uber.org/zap"
)

// app bundles the wired components shared by every command.
type app struct {
	cfg       *config.Config
	state     *session.State
	portfolio *portfolio.Manager
	recorder  recorder.Recorder
	telegram  *notifier.TelegramNotifier
	sched     *scheduler.Scheduler
}

// setup loads config, initializes logging and wires all components. withTelegram
// controls whether a Telegram connection is attempted.
func setup(ctx context.Context, withTelegram bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	state := session.New(session.Options{
		SeriesCap:     cfg.History.SeriesCap,
		PredictionCap: cfg.History.PredictionCap,
		SentimentCap:  cfg.History.SentimentCap,
		LogCap:        cfg.History.LogCap,
	})
	if err := logger.Init(cfg.Log.Level, cfg.Log.File, state.Logs.Hook); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, state: state}

	ensureDir(cfg.Portfolio.StateFile)
	pm, err := portfolio.NewManager(cfg.Portfolio.StateFile)
	if err != nil {
		return nil, fmt.Errorf("init portfolio: %w", err)
	}
	a.portfolio = pm
	state.Restore(pm.GetState())

	a.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		ensureDir(cfg.Database.SQLitePath)
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			a.recorder = sr
		}
	}

	var n notifier.Notifier = notifier.NoopNotifier{}
	if withTelegram && cfg.TelegramEnabled() {
		chatID, _ := cfg.ChatID()
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, chatID, cfg.Proxy)
		if err != nil {
			logger.Warn("telegram unavailable, notifications disabled", zap.Error(err))
		} else {
			a.telegram = tn
			n = tn
		}
	}

	fetcher := collector.NewBinanceFetcher(collector.BinanceOptions{
		BaseURL:           cfg.Binance.BaseURL,
		Timeout:           cfg.Binance.Timeout,
		RequestsPerMinute: cfg.Binance.RequestsPerMinute,
		StatsTTL:          cfg.Binance.StatsTTL,
		ProxyURL:          cfg.Proxy,
	})
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	col := collector.NewCollector(fetcher, collector.NewSynthesizer(rand.New(rand.NewSource(seed))), cfg.SymbolTable())
	logger.Info("data source", zap.String("fetcher", fetcher.Name()), zap.String("base_url", cfg.Binance.BaseURL))

	scorer := sentiment.NewScorer(sentiment.Config{
		BlendWeight: cfg.Sentiment.BlendWeight,
		Mode:        sentiment.MatchMode(cfg.Sentiment.MatchMode),
	})

	sched := scheduler.NewScheduler(ctx, col, scorer, state, n, a.recorder)
	sched.Portfolio = pm
	sched.Symbols = cfg.TrackedSymbols()
	sched.Headlines = cfg.Sentiment.Headlines
	sched.Params = calculator.Params{
		MAWindows:        cfg.Indicators.MAWindows,
		RSIPeriod:        cfg.Indicators.RSIPeriod,
		VolatilityWindow: cfg.Indicators.VolatilityWindow,
		SlopeWindow:      calculator.DefaultParams().SlopeWindow,
	}
	a.sched = sched
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		logger.Warn("close recorder", zap.Error(err))
	}
	logger.Sync()
}

func ensureDir(path string) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0755)
	}
}

var htmlTags = strings.NewReplacer("<b>", "", "</b>", "", "<code>", "", "</code>", "")

// plain strips the Telegram HTML markup for terminal output.
func plain(s string) string {
	return htmlTags.Replace(s)
}
