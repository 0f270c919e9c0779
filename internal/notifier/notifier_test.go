package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"CryptoSentinel/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

type fakeBot struct {
	fails   int
	sent    []string
	updates chan tgbotapi.Update
	polled  tgbotapi.UpdateConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fails > 0 {
		f.fails--
		return tgbotapi.Message{}, errors.New("bad gateway")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig).Text)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.polled = u
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {}

func TestTelegramNotifier_Retry(t *testing.T) {
	bot := &fakeBot{fails: 2}
	n := &TelegramNotifier{api: bot, ChatID: 1, MaxRetries: 3, Backoff: time.Millisecond}

	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(bot.sent) != 1 || bot.sent[0] != "hello" {
		t.Errorf("sent = %v", bot.sent)
	}

	bot.fails = 10
	if err := n.Send(context.Background(), "again"); err == nil || !strings.Contains(err.Error(), "4 attempts") {
		t.Errorf("err = %v, want exhausted after 4 attempts", err)
	}
}

func TestTelegramNotifier_Polling(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update, 3)}
	n := &TelegramNotifier{api: bot, ChatID: 42, Backoff: time.Millisecond}

	command := func(chatID int64, text string) tgbotapi.Update {
		cmdLen := strings.IndexByte(text+" ", ' ')
		return tgbotapi.Update{Message: &tgbotapi.Message{
			Chat:     &tgbotapi.Chat{ID: chatID},
			Text:     text,
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		}}
	}
	bot.updates <- command(7, "/predict BTCUSDT")
	bot.updates <- command(42, "/predict ETHUSDT")
	close(bot.updates)

	var got []string
	n.StartPolling(context.Background(), func(_ context.Context, cmd, args string) string {
		got = append(got, cmd+":"+args)
		return "ok " + args
	})

	if len(got) != 1 || got[0] != "predict:ETHUSDT" {
		t.Errorf("handled = %v, want only the configured chat", got)
	}
	if len(bot.sent) != 1 || bot.sent[0] != "ok ETHUSDT" {
		t.Errorf("replies = %v", bot.sent)
	}
	if poll := time.Duration(bot.polled.Timeout) * time.Second; poll != pollTimeout || clientTimeout <= poll {
		t.Errorf("long poll %s must be shorter than the client timeout %s", poll, clientTimeout)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(45000), "$45,000.00"},
		{decimal.RequireFromString("1234.5"), "$1,234.50"},
		{decimal.RequireFromString("0.1534"), "$0.1534"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrediction(t *testing.T) {
	p := &model.Prediction{
		Symbol:      "BTCUSDT",
		Direction:   model.DirectionStrongUp,
		Confidence:  98,
		Timeframe:   "15-30 minutes",
		Reasoning:   "Very strong bullish indicators across multiple factors",
		TargetPrice: decimal.NewFromInt(46000),
		RiskLevel:   model.RiskHigh,
		Score:       1.55,
		Factors:     []string{"Trend: Bullish", "Price near 24h high - Resistance possible"},
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	msg := FormatPrediction(p, decimal.NewFromInt(45000), true)
	for _, want := range []string{"<b>BTCUSDT</b>", "STRONG_UP", "98% confidence", "$46,000.00", "synthetic", "Resistance possible"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prediction message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAlertListAndPortfolio(t *testing.T) {
	if got := FormatAlertList(nil); got != "No price alerts" {
		t.Errorf("empty list = %q", got)
	}
	msg := FormatAlertList([]model.PriceAlert{{ID: "id1", Symbol: "X", Condition: model.ConditionAbove, Threshold: decimal.NewFromInt(100), Triggered: true}})
	if !strings.Contains(msg, "triggered") || !strings.Contains(msg, "id1") {
		t.Errorf("alert list = %q", msg)
	}

	sum := &model.PortfolioSummary{
		Positions: []model.HoldingValuation{{
			Holding:      model.Holding{Symbol: "ETHUSDT", Quantity: decimal.NewFromInt(2), BuyPrice: decimal.NewFromInt(3000)},
			CurrentValue: decimal.NewFromInt(5000),
			PnL:          decimal.NewFromInt(-1000),
			PnLPercent:   -16.67,
		}},
		TotalInvested: decimal.NewFromInt(6000),
		TotalValue:    decimal.NewFromInt(5000),
		TotalPnL:      decimal.NewFromInt(-1000),
		PnLPercent:    -16.67,
	}
	pm := FormatPortfolio(sum)
	if !strings.Contains(pm, "-$1,000.00") || !strings.Contains(pm, "-16.67%") {
		t.Errorf("portfolio = %q", pm)
	}
}

func TestFormatVolume(t *testing.T) {
	if got := FormatVolume(decimal.NewFromInt(12_300_000)); got != "12.3 M" {
		t.Errorf("FormatVolume = %q, want 12.3 M", got)
	}
}
