package session

import (
	"sync"
	"time"

	"CryptoSentinel/internal/model"

	"go.uber.org/zap/zapcore"
)

const DefaultLogCap = 50

// LogEntry is one line of the in-memory activity log.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
}

// LogBuffer keeps the most recent log entries for display.
type LogBuffer struct {
	mu      sync.Mutex
	entries *model.History[LogEntry]
}

func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{entries: model.NewHistory[LogEntry](capacity)}
}

// Hook is a zap entry hook feeding the buffer.
func (b *LogBuffer) Hook(e zapcore.Entry) error {
	b.Add(LogEntry{Time: e.Time, Level: e.Level.CapitalString(), Message: e.Message})
	return nil
}

func (b *LogBuffer) Add(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries.Append(e)
}

// Entries returns a copy, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries.Items()
}

func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries.Clear()
}
