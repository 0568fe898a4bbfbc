package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TrendScope/internal/collector"
	"TrendScope/internal/logger"
	"TrendScope/internal/model"
)

// SQLiteStore keeps daily bars in a local SQLite database. It doubles as a
// collector.Loader so runs can work offline from previously imported data.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

var _ collector.Loader = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP server read while an import writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite store opened", logger.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			ticker TEXT    NOT NULL,
			day    TEXT    NOT NULL,
			open   REAL    NOT NULL,
			high   REAL    NOT NULL,
			low    REAL    NOT NULL,
			close  REAL    NOT NULL,
			volume REAL    NOT NULL,
			source TEXT,
			saved  INTEGER NOT NULL,
			PRIMARY KEY (ticker, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_day ON daily_bars(day)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// SaveBars upserts the bars of series, tagged with the loader they came from.
func (s *SQLiteStore) SaveBars(ctx context.Context, series model.PriceSeries, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(ticker, day, open, high, low, close, volume, source, saved)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(ticker, day) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume,
			source=excluded.source, saved=excluded.saved`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx, series.Ticker, b.Date.Format(model.DateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume, source, now); err != nil {
			return 0, fmt.Errorf("upsert %s %s: %w", series.Ticker, b.Date.Format(model.DateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(series.Bars), nil
}

// Fetch reads stored bars for ticker in [start, end). A ticker with no stored
// rows in range yields an empty series.
func (s *SQLiteStore) Fetch(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, open, high, low, close, volume
		FROM daily_bars WHERE ticker = ? AND day >= ? AND day < ? ORDER BY day`,
		ticker, start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: query bars: %w", model.ErrFetch, err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var (
			day string
			b   model.Bar
		)
		if err := rows.Scan(&day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return model.PriceSeries{}, fmt.Errorf("%w: scan bar: %w", model.ErrFetch, err)
		}
		if b.Date, err = time.Parse(model.DateLayout, day); err != nil {
			return model.PriceSeries{}, fmt.Errorf("%w: bad day %q: %w", model.ErrFetch, day, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: read bars: %w", model.ErrFetch, err)
	}
	return collector.Normalize(ticker, bars, start, end), nil
}

// Tickers lists the stored tickers with their bar counts.
func (s *SQLiteStore) Tickers(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, COUNT(*) FROM daily_bars GROUP BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			ticker string
			n      int
		)
		if err := rows.Scan(&ticker, &n); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out[ticker] = n
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
