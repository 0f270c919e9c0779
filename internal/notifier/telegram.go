package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"CryptoSentinel/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// pollTimeout is the getUpdates long-poll duration. The HTTP client must outlast it.
const (
	pollTimeout   = 30 * time.Second
	clientTimeout = pollTimeout + 10*time.Second
)

// botAPI is the subset of *tgbotapi.BotAPI the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	api        botAPI
	ChatID     int64
	MaxRetries int
	Backoff    time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{
		Timeout:   clientTimeout,
		Transport: transport,
	}
	api, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	logger.Info("telegram bot initialized", zap.String("username", api.Self.UserName))
	return &TelegramNotifier{api: api, ChatID: chatID, MaxRetries: 3, Backoff: time.Second}, nil
}

// send sends one HTML message to the configured chat.
func (t *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(t.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Send sends a message with exponential backoff retry.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	var lastErr error
	for i := 0; i <= t.MaxRetries; i++ {
		err := t.send(text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == t.MaxRetries {
			break
		}
		backoff := t.Backoff * time.Duration(1<<uint(i))
		logger.Warn("telegram send failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", t.MaxRetries+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts exhausted: %w", t.MaxRetries+1, lastErr)
}
