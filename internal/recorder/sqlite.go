package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"PriceGrab/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder mirrors appended rows into a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc queries can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			symbol      TEXT NOT NULL,
			date        TEXT NOT NULL,
			open        TEXT,
			high        TEXT,
			low         TEXT,
			close       TEXT,
			adj_close   TEXT,
			volume      INTEGER,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_date ON price_history(date)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRows inserts the rows, ignoring dates already mirrored. Prices are
// stored as text to keep the decimal values exact.
func (r *SQLiteRecorder) RecordRows(symbol string, rows []model.PriceRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, row := range rows {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO price_history
			(symbol, date, open, high, low, close, adj_close, volume, recorded_at)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			symbol, row.Date.Format("2006-01-02"),
			row.Open.String(), row.High.String(), row.Low.String(),
			row.Close.String(), row.AdjClose.String(),
			row.Volume, now,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", row.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
