package notifier

import "context"

// Notifier delivers a formatted text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NoopNotifier drops every message. Used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, string) error { return nil }
