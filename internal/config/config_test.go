package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	table := cfg.SymbolTable()
	if len(table) != 10 {
		t.Errorf("symbols = %d, want 10", len(table))
	}
	if table["BTCUSDT"].BaselinePrice != 45000 || table["DOGEUSDT"].BaselinePrice != 0.15 {
		t.Errorf("baselines = %+v / %+v", table["BTCUSDT"], table["DOGEUSDT"])
	}
	if cfg.Binance.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Binance.Timeout)
	}
	if cfg.History.SeriesCap != 50 || cfg.History.PredictionCap != 10 || cfg.History.LogCap != 50 {
		t.Errorf("history caps = %+v", cfg.History)
	}
	if cfg.Sentiment.BlendWeight != 0.3 || cfg.Sentiment.MatchMode != "presence" {
		t.Errorf("sentiment = %+v", cfg.Sentiment)
	}
	if got := cfg.TrackedSymbols(); len(got) != 10 || got[0] != "BTCUSDT" {
		t.Errorf("tracked = %v", got)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram enabled without token")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
binance:
  timeout: 2s
  stats_ttl: 1m
symbols:
  - symbol: BTCUSDT
    name: Bitcoin
    baseline_price: 60000
  - symbol: SOLUSDT
    name: Solana
    baseline_price: 150
tracked: [SOLUSDT]
indicators:
  rsi_period: 5
sentiment:
  blend_weight: 1
  match_mode: frequency
telegram:
  chat_id: "12345"
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SENTINEL_TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("SENTINEL_SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Binance.Timeout != 2*time.Second || cfg.Binance.StatsTTL != time.Minute {
		t.Errorf("binance = %+v", cfg.Binance)
	}
	if len(cfg.Symbols) != 2 || cfg.SymbolTable()["BTCUSDT"].BaselinePrice != 60000 {
		t.Errorf("symbols = %+v", cfg.Symbols)
	}
	if got := cfg.TrackedSymbols(); len(got) != 1 || got[0] != "SOLUSDT" {
		t.Errorf("tracked = %v", got)
	}
	if cfg.Indicators.RSIPeriod != 5 || cfg.Indicators.VolatilityWindow != 15 {
		t.Errorf("indicators = %+v", cfg.Indicators)
	}
	if cfg.Sentiment.MatchMode != "frequency" || cfg.Sentiment.BlendWeight != 1 {
		t.Errorf("sentiment = %+v", cfg.Sentiment)
	}
	if !cfg.TelegramEnabled() || cfg.Database.SQLitePath != "/tmp/x.db" {
		t.Errorf("env overrides not applied: token=%q sqlite=%q", cfg.Telegram.BotToken, cfg.Database.SQLitePath)
	}
	if id, err := cfg.ChatID(); err != nil || id != 12345 {
		t.Errorf("chat id = %d, %v", id, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero baseline", func(c *Config) { c.Symbols[0].BaselinePrice = 0 }, "baseline_price must be positive"},
		{"duplicate symbol", func(c *Config) { c.Symbols[1].Symbol = c.Symbols[0].Symbol }, "duplicate"},
		{"unknown tracked", func(c *Config) { c.Tracked = []string{"FOOUSDT"} }, "not in the symbol table"},
		{"bad window", func(c *Config) { c.Indicators.MAWindows = []int{5, 0} }, "ma_windows"},
		{"bad match mode", func(c *Config) { c.Sentiment.MatchMode = "fuzzy" }, "match_mode"},
		{"non-numeric chat", func(c *Config) { c.Telegram.BotToken = "t"; c.Telegram.ChatID = "@chan" }, "chat_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("symbols: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
