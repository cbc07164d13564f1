package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketPulse/internal/logger"
	"MarketPulse/internal/model"
)

// SQLiteRecorder persists boards to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP server read history while ticks write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.GetLogger().WithComponent("recorder").WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS board_ticks (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			page         TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			duration_ms  REAL,
			payload      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_page_ts ON board_ticks(page, timestamp)`,

		`CREATE TABLE IF NOT EXISTS sentiment_scores (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			seq             INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			ratio           REAL,
			prev_ratio      REAL,
			score           REAL,
			score_ok        INTEGER,
			score_zero_fill REAL,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_ts ON sentiment_scores(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS bias_signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			seq        INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			price      REAL,
			rsi        REAL,
			score      REAL,
			direction  TEXT,
			entry      REAL,
			stop       REAL,
			take       REAL,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bias_ts ON bias_signals(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS composite_scores (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			seq         INTEGER NOT NULL,
			name        TEXT NOT NULL,
			asset       TEXT NOT NULL,
			score       REAL,
			category    TEXT,
			calibration TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_composite_ts ON composite_scores(name, asset, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record writes the tick and its detail rows in one transaction.
func (r *SQLiteRecorder) Record(snap model.Snapshot, took time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s board: %w", snap.PageName(), err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().Unix()
	seq := snap.Sequence()
	if _, err := tx.Exec(`INSERT INTO board_ticks (timestamp, page, seq, duration_ms, payload) VALUES (?,?,?,?,?)`,
		now, string(snap.PageName()), seq, float64(took.Microseconds())/1000, string(payload)); err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}

	switch b := snap.(type) {
	case *model.SentimentBoard:
		for _, row := range b.Rows {
			if _, err := tx.Exec(`INSERT INTO sentiment_scores
				(timestamp, seq, symbol, ratio, prev_ratio, score, score_ok, score_zero_fill, error)
				VALUES (?,?,?,?,?,?,?,?,?)`,
				now, seq, row.Symbol, row.Ratio, row.PrevRatio, row.Score, row.ScoreOK, row.ScoreZeroFill, row.Err); err != nil {
				return fmt.Errorf("insert sentiment: %w", err)
			}
		}
	case *model.BiasBoard:
		for _, row := range b.Rows {
			var entry, stop, take float64
			if p := row.Bias.Plan; p != nil {
				entry, stop, take = p.Entry, p.Stop, p.Take
			}
			if _, err := tx.Exec(`INSERT INTO bias_signals
				(timestamp, seq, symbol, price, rsi, score, direction, entry, stop, take, error)
				VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
				now, seq, row.Symbol, row.Price, row.RSI, row.Bias.Score, string(row.Bias.Direction), entry, stop, take, row.Err); err != nil {
				return fmt.Errorf("insert bias: %w", err)
			}
		}
	case *model.CompositeBoard:
		for _, res := range append(append([]model.CompositeResult(nil), b.CETS...), b.TS...) {
			if err := insertComposite(tx, now, seq, res, b.Version); err != nil {
				return err
			}
		}
	case *model.MacroBoard:
		if err := insertComposite(tx, now, seq, b.GIRG, b.Version); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertComposite(tx *sql.Tx, now int64, seq uint64, res model.CompositeResult, version string) error {
	_, err := tx.Exec(`INSERT INTO composite_scores
		(timestamp, seq, name, asset, score, category, calibration)
		VALUES (?,?,?,?,?,?,?)`,
		now, seq, res.Name, res.Asset, res.Score, res.Category.Code, version)
	if err != nil {
		return fmt.Errorf("insert %s: %w", res.Name, err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
