package scheduler

import (
	"context"
	"fmt"
	"strings"

	"CryptoSentinel/internal/alert"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"

	"github.com/shopspring/decimal"
)

const helpText = `Available commands:
/predict SYMBOL - run a refresh pass and show the prediction
/sentiment - score the configured headlines
/alerts - list price alerts
/alert SYMBOL above|below PRICE - add a price alert
/unalert ID - remove a price alert
/portfolio - show holdings and P&L
/watch SYMBOL, /unwatch SYMBOL, /watchlist`

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, args string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := strings.Fields(args)
	switch command {
	case "predict":
		if len(fields) != 1 {
			return "usage: /predict SYMBOL"
		}
		res, err := s.refreshPass(ctx, strings.ToUpper(fields[0]))
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		s.alertPass(ctx)
		return notifier.FormatPrediction(&res.Prediction, res.Quote.Price, res.Quote.Synthetic())

	case "sentiment":
		sum := s.sentimentPass(ctx)
		return notifier.FormatSentiment(&sum)

	case "alerts":
		return notifier.FormatAlertList(s.State.Alerts())

	case "alert":
		if len(fields) != 3 {
			return "usage: /alert SYMBOL above|below PRICE"
		}
		a, err := s.addAlert(fields[0], fields[1], fields[2])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return fmt.Sprintf("✅ alert %s added: %s %s %s", a.ID, a.Symbol, a.Condition, notifier.FormatPrice(a.Threshold))

	case "unalert":
		if len(fields) != 1 {
			return "usage: /unalert ID"
		}
		if err := s.State.RemoveAlert(fields[0]); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		s.persistSession()
		return "✅ alert removed"

	case "portfolio":
		if s.Portfolio == nil {
			return "Portfolio is not configured"
		}
		sum := s.Portfolio.Valuate(s.State.LastPrices())
		return notifier.FormatPortfolio(&sum)

	case "watch", "unwatch":
		if len(fields) != 1 {
			return fmt.Sprintf("usage: /%s SYMBOL", command)
		}
		var changed bool
		if command == "watch" {
			changed = s.State.Watch(fields[0])
		} else {
			changed = s.State.Unwatch(fields[0])
		}
		if changed {
			s.persistSession()
		}
		return "Watchlist: " + strings.Join(s.State.Watchlist(), ", ")

	case "watchlist":
		return "Watchlist: " + strings.Join(s.State.Watchlist(), ", ")

	default:
		return helpText
	}
}

// AddAlert parses and stores a new alert rule.
func (s *Scheduler) AddAlert(symbol, condition, threshold string) (*model.PriceAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAlert(symbol, condition, threshold)
}

func (s *Scheduler) addAlert(symbol, condition, threshold string) (*model.PriceAlert, error) {
	price, err := decimal.NewFromString(threshold)
	if err != nil {
		return nil, fmt.Errorf("threshold %q: %w", threshold, err)
	}
	a, err := alert.NewAlert(symbol, model.AlertCondition(strings.ToLower(condition)), price, s.Now())
	if err != nil {
		return nil, err
	}
	if _, ok := s.Collector.Symbols[a.Symbol]; !ok {
		return nil, fmt.Errorf("%s is not a tracked symbol", a.Symbol)
	}
	s.State.AddAlert(a)
	s.persistSession()
	return a, nil
}
