package notifier

import (
	"context"
	"strings"
	"time"

	"CryptoSentinel/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received. args is the text after the command.
type CommandHandler func(ctx context.Context, command, args string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(pollTimeout / time.Second)
	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.dispatch(ctx, update, handler)
		}
	}
}

func (t *TelegramNotifier) dispatch(ctx context.Context, update tgbotapi.Update, handler CommandHandler) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Chat.ID != t.ChatID || !msg.IsCommand() {
		return
	}
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	logger.Info("received telegram command", zap.String("command", command), zap.String("args", args))

	reply := handler(ctx, command, args)
	if reply == "" {
		return
	}
	if err := t.Send(ctx, reply); err != nil {
		logger.Error("send reply", zap.Error(err))
	}
}
