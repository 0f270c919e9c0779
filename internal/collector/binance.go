package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CryptoSentinel/internal/model"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const DefaultBinanceURL = "https://api.binance.com"

// BinanceOptions configures the public REST client.
type BinanceOptions struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	StatsTTL          time.Duration
	ProxyURL          string
}

// BinanceFetcher implements Fetcher against the Binance public ticker endpoints.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client

	limiter *rate.Limiter
	stats   *cache.Cache
	timeout time.Duration
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(opts BinanceOptions) *BinanceFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBinanceURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 600
	}

	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	f := &BinanceFetcher{
		BaseURL: opts.BaseURL,
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		timeout: opts.Timeout,
	}
	if opts.StatsTTL > 0 {
		f.stats = cache.New(opts.StatsTTL, 2*opts.StatsTTL)
	}
	return f
}

func (f *BinanceFetcher) Name() string { return "binance" }

type binancePrice struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type binance24h struct {
	Symbol             string          `json:"symbol"`
	PriceChange        decimal.Decimal `json:"priceChange"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
	HighPrice          decimal.Decimal `json:"highPrice"`
	LowPrice           decimal.Decimal `json:"lowPrice"`
	Volume             decimal.Decimal `json:"volume"`
}

func (f *BinanceFetcher) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var p binancePrice
	if err := f.get(ctx, "/api/v3/ticker/price", symbol, &p); err != nil {
		return decimal.Zero, err
	}
	if !p.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("binance price for %s: non-positive %s: %w", symbol, p.Price, ErrUnavailable)
	}
	return p.Price, nil
}

func (f *BinanceFetcher) Fetch24hStats(ctx context.Context, symbol string) (model.Stats24h, error) {
	if f.stats != nil {
		if v, ok := f.stats.Get(symbol); ok {
			return v.(model.Stats24h), nil
		}
	}

	var raw binance24h
	if err := f.get(ctx, "/api/v3/ticker/24hr", symbol, &raw); err != nil {
		return model.Stats24h{}, err
	}
	s := model.Stats24h{
		High:               raw.HighPrice,
		Low:                raw.LowPrice,
		Volume:             raw.Volume,
		PriceChange:        raw.PriceChange,
		PriceChangePercent: raw.PriceChangePercent,
	}
	if f.stats != nil {
		f.stats.SetDefault(symbol, s)
	}
	return s, nil
}

// get issues one rate-limited GET bounded by the fetcher timeout. Every failure wraps ErrUnavailable.
func (f *BinanceFetcher) get(ctx context.Context, path, symbol string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("binance rate limit: %v: %w", err, ErrUnavailable)
	}

	u := fmt.Sprintf("%s%s?symbol=%s", f.BaseURL, path, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("binance request: %v: %w", err, ErrUnavailable)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("binance fetch: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("binance read body: %v: %w", err, ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("binance: status %d, body: %s: %w", resp.StatusCode, string(body), ErrUnavailable)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("binance decode: %v: %w", err, ErrUnavailable)
	}
	return nil
}
