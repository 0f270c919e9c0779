package recorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/pkg/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sqlx.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			current_price    REAL,
			trend_score      REAL,
			volatility_score REAL,
			volume_score     REAL,
			range_score      REAL,
			total_score      REAL,
			direction        TEXT,
			confidence       REAL,
			timeframe        TEXT,
			target_price     REAL,
			risk_level       TEXT,
			notes            TEXT,
			synthetic        BOOLEAN
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_symbol_ts ON predictions(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS sentiment_results (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			content         TEXT,
			label           TEXT,
			polarity        REAL,
			base_polarity   REAL,
			financial_score REAL,
			confidence      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_ts ON sentiment_results(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			alert_id     TEXT,
			symbol       TEXT,
			cond         TEXT,
			threshold    REAL,
			price        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPrediction(evt *PredictionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := evt.Prediction
	row := PredictionRow{
		Timestamp:       p.CreatedAt.Unix(),
		Symbol:          p.Symbol,
		CurrentPrice:    model.ToFloat64(evt.CurrentPrice),
		TrendScore:      evt.Factors.Trend,
		VolatilityScore: evt.Factors.Volatility,
		VolumeScore:     evt.Factors.Volume,
		RangeScore:      evt.Factors.Range,
		TotalScore:      evt.Factors.Total,
		Direction:       string(p.Direction),
		Confidence:      p.Confidence,
		Timeframe:       p.Timeframe,
		TargetPrice:     model.ToFloat64(p.TargetPrice),
		RiskLevel:       string(p.RiskLevel),
		Notes:           strings.Join(p.Factors, "; "),
		Synthetic:       evt.Synthetic,
	}
	if p.CreatedAt.IsZero() {
		row.Timestamp = r.now().Unix()
	}

	_, err := r.db.NamedExec(`INSERT INTO predictions
		(timestamp, symbol, current_price, trend_score, volatility_score, volume_score, range_score,
		 total_score, direction, confidence, timeframe, target_price, risk_level, notes, synthetic)
		VALUES (:timestamp, :symbol, :current_price, :trend_score, :volatility_score, :volume_score, :range_score,
		 :total_score, :direction, :confidence, :timeframe, :target_price, :risk_level, :notes, :synthetic)`,
		row,
	)
	return err
}

func (r *SQLiteRecorder) RecordSentiment(res *model.SentimentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := res.AnalyzedAt
	if ts.IsZero() {
		ts = r.now()
	}
	_, err := r.db.Exec(`INSERT INTO sentiment_results
		(timestamp, content, label, polarity, base_polarity, financial_score, confidence)
		VALUES (?,?,?,?,?,?,?)`,
		ts.Unix(), res.Text, string(res.Label), res.Polarity,
		res.BasePolarity, res.FinancialScore, res.Confidence,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now()
	if evt.Alert.TriggeredAt != nil {
		ts = *evt.Alert.TriggeredAt
	}
	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, alert_id, symbol, cond, threshold, price)
		VALUES (?,?,?,?,?,?)`,
		ts.Unix(), evt.Alert.ID, evt.Alert.Symbol, string(evt.Alert.Condition),
		model.ToFloat64(evt.Alert.Threshold), model.ToFloat64(evt.Price),
	)
	return err
}

// RecentPredictions returns up to limit predictions for symbol, newest first.
func (r *SQLiteRecorder) RecentPredictions(symbol string, limit int) ([]PredictionRow, error) {
	var rows []PredictionRow
	err := r.db.Select(&rows, `SELECT * FROM predictions WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}
	return rows, nil
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}
