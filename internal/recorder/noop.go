package recorder

import "CryptoSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPrediction(_ *PredictionEvent) error              { return nil }
func (n *NoopRecorder) RecordSentiment(_ *model.SentimentResult) error         { return nil }
func (n *NoopRecorder) RecordAlert(_ *AlertEvent) error                        { return nil }
func (n *NoopRecorder) RecentPredictions(string, int) ([]PredictionRow, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                           { return nil }
