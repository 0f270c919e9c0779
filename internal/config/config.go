package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SENTINEL_TELEGRAM_BOT_TOKEN.
// The unprefixed name (TELEGRAM_BOT_TOKEN) is accepted as well.
const EnvPrefix = "SENTINEL"

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Binance struct {
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
		StatsTTL          time.Duration `yaml:"stats_ttl"`
	} `yaml:"binance"`
	Symbols []model.SymbolInfo `yaml:"symbols"`
	// Tracked lists the symbols evaluated on every refresh pass. Empty means the whole table.
	Tracked  []string `yaml:"tracked"`
	Schedule struct {
		RefreshCron   string `yaml:"refresh_cron"`
		SentimentCron string `yaml:"sentiment_cron"`
	} `yaml:"schedule"`
	Indicators struct {
		MAWindows        []int `yaml:"ma_windows"`
		RSIPeriod        int   `yaml:"rsi_period"`
		VolatilityWindow int   `yaml:"volatility_window"`
	} `yaml:"indicators"`
	History struct {
		SeriesCap     int `yaml:"series_cap"`
		PredictionCap int `yaml:"prediction_cap"`
		SentimentCap  int `yaml:"sentiment_cap"`
		LogCap        int `yaml:"log_cap"`
	} `yaml:"history"`
	Sentiment struct {
		BlendWeight float64  `yaml:"blend_weight"`
		MatchMode   string   `yaml:"match_mode"`
		Headlines   []string `yaml:"headlines"`
	} `yaml:"sentiment"`
	Portfolio struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"portfolio"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
	// Seed fixes the synthetic data generator. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// envOverrides are read with envconfig. Empty values leave the file setting alone.
type envOverrides struct {
	TelegramBotToken string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string        `envconfig:"TELEGRAM_CHAT_ID"`
	BinanceURL       string        `envconfig:"BINANCE_URL"`
	BinanceTimeout   time.Duration `envconfig:"BINANCE_TIMEOUT"`
	RefreshCron      string        `envconfig:"REFRESH_CRON"`
	SQLitePath       string        `envconfig:"SQLITE_PATH"`
	StateFile        string        `envconfig:"STATE_FILE"`
	LogLevel         string        `envconfig:"LOG_LEVEL"`
	LogFile          string        `envconfig:"LOG_FILE"`
	Proxy            string        `envconfig:"HTTPS_PROXY"`
	Seed             int64         `envconfig:"SEED"`
}

// DefaultSymbols is the built-in asset table.
var DefaultSymbols = []model.SymbolInfo{
	{Symbol: "BTCUSDT", Name: "Bitcoin", BaselinePrice: 45000, Category: "Large Cap"},
	{Symbol: "ETHUSDT", Name: "Ethereum", BaselinePrice: 2500, Category: "Large Cap"},
	{Symbol: "BNBUSDT", Name: "Binance Coin", BaselinePrice: 300, Category: "Large Cap"},
	{Symbol: "ADAUSDT", Name: "Cardano", BaselinePrice: 0.5, Category: "Mid Cap"},
	{Symbol: "SOLUSDT", Name: "Solana", BaselinePrice: 100, Category: "Mid Cap"},
	{Symbol: "DOTUSDT", Name: "Polkadot", BaselinePrice: 7, Category: "Mid Cap"},
	{Symbol: "DOGEUSDT", Name: "Dogecoin", BaselinePrice: 0.15, Category: "Meme"},
	{Symbol: "XRPUSDT", Name: "Ripple", BaselinePrice: 0.6, Category: "Large Cap"},
	{Symbol: "LTCUSDT", Name: "Litecoin", BaselinePrice: 75, Category: "Large Cap"},
	{Symbol: "LINKUSDT", Name: "Chainlink", BaselinePrice: 15, Category: "Mid Cap"},
}

var defaultHeadlines = []string{
	"Bitcoin price is going up! Great investment!",
	"Market is crashing, I'm losing money",
	"The crypto market is stable today",
	"This is terrible news for investors",
	"Amazing growth in blockchain technology",
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	setString(&c.Telegram.BotToken, env.TelegramBotToken)
	setString(&c.Telegram.ChatID, env.TelegramChatID)
	setString(&c.Binance.BaseURL, env.BinanceURL)
	setString(&c.Schedule.RefreshCron, env.RefreshCron)
	setString(&c.Database.SQLitePath, env.SQLitePath)
	setString(&c.Portfolio.StateFile, env.StateFile)
	setString(&c.Log.Level, env.LogLevel)
	setString(&c.Log.File, env.LogFile)
	setString(&c.Proxy, env.Proxy)
	if env.BinanceTimeout > 0 {
		c.Binance.Timeout = env.BinanceTimeout
	}
	if env.Seed != 0 {
		c.Seed = env.Seed
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Binance.Timeout == 0 {
		c.Binance.Timeout = 5 * time.Second
	}
	if c.Binance.RequestsPerMinute == 0 {
		c.Binance.RequestsPerMinute = 600
	}
	if c.Binance.StatsTTL == 0 {
		c.Binance.StatsTTL = 30 * time.Second
	}
	if len(c.Symbols) == 0 {
		c.Symbols = append([]model.SymbolInfo(nil), DefaultSymbols...)
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "*/10 * * * * *"
	}
	if c.Schedule.SentimentCron == "" {
		c.Schedule.SentimentCron = "0 */15 * * * *"
	}
	if len(c.Indicators.MAWindows) == 0 {
		c.Indicators.MAWindows = []int{5, 10, 20}
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.VolatilityWindow == 0 {
		c.Indicators.VolatilityWindow = 15
	}
	if c.History.SeriesCap == 0 {
		c.History.SeriesCap = 50
	}
	if c.History.PredictionCap == 0 {
		c.History.PredictionCap = 10
	}
	if c.History.SentimentCap == 0 {
		c.History.SentimentCap = 10
	}
	if c.History.LogCap == 0 {
		c.History.LogCap = 50
	}
	if c.Sentiment.BlendWeight == 0 {
		c.Sentiment.BlendWeight = 0.3
	}
	if c.Sentiment.MatchMode == "" {
		c.Sentiment.MatchMode = "presence"
	}
	if len(c.Sentiment.Headlines) == 0 {
		c.Sentiment.Headlines = append([]string(nil), defaultHeadlines...)
	}
	if c.Portfolio.StateFile == "" {
		c.Portfolio.StateFile = "data/portfolio.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/crypto_sentinel.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the symbol table, tunables and optional Telegram settings.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		switch {
		case s.Symbol == "":
			errs = append(errs, errors.New("symbols: empty symbol"))
		case seen[s.Symbol]:
			errs = append(errs, fmt.Errorf("symbols: duplicate %s", s.Symbol))
		case s.BaselinePrice <= 0:
			errs = append(errs, fmt.Errorf("symbols: %s baseline_price must be positive", s.Symbol))
		}
		seen[s.Symbol] = true
	}
	if len(c.Symbols) == 0 {
		errs = append(errs, errors.New("symbols: at least one symbol is required"))
	}
	for _, t := range c.Tracked {
		if !seen[t] {
			errs = append(errs, fmt.Errorf("tracked: %s is not in the symbol table", t))
		}
	}

	for _, w := range c.Indicators.MAWindows {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("indicators.ma_windows: %d must be positive", w))
		}
	}
	if c.Indicators.RSIPeriod <= 0 {
		errs = append(errs, errors.New("indicators.rsi_period must be positive"))
	}
	if c.Indicators.VolatilityWindow <= 1 {
		errs = append(errs, errors.New("indicators.volatility_window must be at least 2"))
	}
	if c.History.SeriesCap <= 0 || c.History.PredictionCap <= 0 || c.History.SentimentCap <= 0 || c.History.LogCap <= 0 {
		errs = append(errs, errors.New("history caps must be positive"))
	}
	if c.Binance.Timeout <= 0 {
		errs = append(errs, errors.New("binance.timeout must be positive"))
	}
	if c.Sentiment.BlendWeight < 0 {
		errs = append(errs, errors.New("sentiment.blend_weight must not be negative"))
	}
	if c.Sentiment.MatchMode != "presence" && c.Sentiment.MatchMode != "frequency" {
		errs = append(errs, fmt.Errorf("sentiment.match_mode: %q is not presence or frequency", c.Sentiment.MatchMode))
	}

	if c.Telegram.BotToken != "" {
		if _, err := c.ChatID(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TelegramEnabled reports whether notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// ChatID parses the configured Telegram chat id.
func (c *Config) ChatID() (int64, error) {
	id, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id %q must be numeric", c.Telegram.ChatID)
	}
	return id, nil
}

// SymbolTable indexes the symbol list by symbol.
func (c *Config) SymbolTable() map[string]model.SymbolInfo {
	m := make(map[string]model.SymbolInfo, len(c.Symbols))
	for _, s := range c.Symbols {
		m[s.Symbol] = s
	}
	return m
}

// TrackedSymbols returns the symbols evaluated on each refresh pass, in table order when unset.
func (c *Config) TrackedSymbols() []string {
	if len(c.Tracked) > 0 {
		return c.Tracked
	}
	out := make([]string, len(c.Symbols))
	for i, s := range c.Symbols {
		out[i] = s.Symbol
	}
	return out
}
