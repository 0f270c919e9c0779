package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// Source tells whether a value came from the upstream or was synthesized.
type Source string

const (
	SourceLive      Source = "live"
	SourceSynthetic Source = "synthetic"
)

// Quote is the outcome of one collection: the data plus where each half came from.
type Quote struct {
	Symbol      string
	Price       decimal.Decimal
	Stats       model.Stats24h
	Observation model.PriceObservation
	PriceSource Source
	StatsSource Source
	// Fallback holds the upstream errors that forced a synthetic substitution.
	Fallback []error
}

// Synthetic reports whether any part of the quote was substituted.
func (q Quote) Synthetic() bool {
	return q.PriceSource == SourceSynthetic || q.StatsSource == SourceSynthetic
}

// Collector fetches live data and substitutes synthetic data on failure.
type Collector struct {
	Fetcher Fetcher
	Synth   *Synthesizer
	Symbols map[string]model.SymbolInfo
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, synth *Synthesizer, symbols map[string]model.SymbolInfo) *Collector {
	return &Collector{Fetcher: fetcher, Synth: synth, Symbols: symbols, Now: time.Now}
}

// Collect fetches price and 24h stats for symbol, appends the resulting observation
// to series and returns the quote. Upstream failures never surface as errors; only an
// unconfigured symbol does.
func (c *Collector) Collect(ctx context.Context, symbol string, series *model.PriceSeries) (Quote, error) {
	info, ok := c.Symbols[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	}

	q := Quote{Symbol: symbol, PriceSource: SourceLive, StatsSource: SourceLive}

	var prev *decimal.Decimal
	if last, ok := series.Last(); ok {
		prev = &last.Price
	}

	price, err := c.Fetcher.FetchPrice(ctx, symbol)
	if err != nil {
		c.warn(symbol, "price", err)
		price = c.Synth.Price(prev, info.BaselinePrice)
		q.PriceSource = SourceSynthetic
		q.Fallback = append(q.Fallback, err)
	}
	q.Price = price

	stats, err := c.Fetcher.Fetch24hStats(ctx, symbol)
	if err != nil {
		c.warn(symbol, "stats", err)
		stats = c.Synth.Stats(info.BaselinePrice)
		q.StatsSource = SourceSynthetic
		q.Fallback = append(q.Fallback, err)
	}
	q.Stats = stats

	q.Observation = model.PriceObservation{
		Price:     price,
		Volume:    c.Synth.ObservedVolume(stats.Volume, price, prev),
		High24h:   stats.High,
		Low24h:    stats.Low,
		Timestamp: c.Now(),
	}
	series.Append(q.Observation)

	logger.Debug("price data updated",
		zap.String("symbol", symbol),
		zap.String("price", price.StringFixed(2)),
		zap.String("price_source", string(q.PriceSource)),
		zap.String("stats_source", string(q.StatsSource)),
	)
	return q, nil
}

// CurrentPrice quotes symbol without touching any series. last seeds the synthetic
// random walk when the upstream fails.
func (c *Collector) CurrentPrice(ctx context.Context, symbol string, last *decimal.Decimal) (decimal.Decimal, Source, error) {
	info, ok := c.Symbols[symbol]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	}
	price, err := c.Fetcher.FetchPrice(ctx, symbol)
	if err != nil {
		c.warn(symbol, "price", err)
		return c.Synth.Price(last, info.BaselinePrice), SourceSynthetic, nil
	}
	return price, SourceLive, nil
}

func (c *Collector) warn(symbol, what string, err error) {
	logger.Warn("upstream unavailable, using synthetic data",
		zap.String("symbol", symbol),
		zap.String("source", c.Fetcher.Name()),
		zap.String("query", what),
		zap.Error(err),
	)
}
