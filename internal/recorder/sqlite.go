package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"PortfolioSentinel/internal/model"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
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

	// WAL mode so ad-hoc readers don't block the writer.
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
		`CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			ticker_count INTEGER,
			skip_count   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ticker_reports (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			ticker         TEXT NOT NULL,
			shares         REAL,
			current_price  REAL,
			ma50           REAL,
			ma200          REAL,
			signal         TEXT,
			est_buy_price  REAL,
			est_sell_price REAL,
			total_value    REAL,
			value_1y       REAL,
			value_3y       REAL,
			value_5y       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_run ON ticker_reports(run_id)`,

		`CREATE TABLE IF NOT EXISTS diagnostics (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ticker TEXT NOT NULL,
			kind   TEXT NOT NULL,
			detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diag_run ON diagnostics(run_id)`,

		`CREATE TABLE IF NOT EXISTS screener_hits (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			screen_id      TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			change_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_ts ON screener_hits(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// RecordRun persists one batch evaluation: the run row, every ticker report
// and every diagnostic.
func (r *SQLiteRecorder) RecordRun(rep *model.PortfolioReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rep.GeneratedAt.Unix()
	if _, err := r.db.Exec(`INSERT INTO runs (run_id, timestamp, ticker_count, skip_count)
		VALUES (?,?,?,?)`,
		rep.RunID, ts, len(rep.Reports), len(rep.Diagnostics),
	); err != nil {
		return err
	}

	for _, tr := range rep.Reports {
		if _, err := r.db.Exec(`INSERT INTO ticker_reports
			(run_id, ticker, shares, current_price, ma50, ma200, signal,
			 est_buy_price, est_sell_price, total_value, value_1y, value_3y, value_5y)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			rep.RunID, tr.Ticker, tr.Shares, tr.Indicators.CurrentPrice,
			nullable(tr.Indicators.MA50), nullable(tr.Indicators.MA200),
			string(tr.Indicators.Signal),
			tr.Forecast.EstimatedBuyPrice, tr.Forecast.EstimatedSellPrice,
			tr.Projection.TotalValue, tr.Projection.Year1, tr.Projection.Year3, tr.Projection.Year5,
		); err != nil {
			return err
		}
	}

	for _, d := range rep.Diagnostics {
		if _, err := r.db.Exec(`INSERT INTO diagnostics (run_id, ticker, kind, detail)
			VALUES (?,?,?,?)`,
			rep.RunID, d.Ticker, string(d.Kind), d.Detail,
		); err != nil {
			return err
		}
	}
	return nil
}

// RecordScreen persists one screener pass. Fetch diagnostics are logged but
// not stored; only flagged movers matter historically.
func (r *SQLiteRecorder) RecordScreen(movers []model.Mover, diags []model.Diagnostic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	screenID := uuid.NewString()
	ts := time.Now().Unix()
	for _, m := range movers {
		if _, err := r.db.Exec(`INSERT INTO screener_hits (screen_id, timestamp, ticker, change_percent)
			VALUES (?,?,?,?)`,
			screenID, ts, m.Ticker, m.ChangePercent,
		); err != nil {
			return err
		}
	}
	for _, d := range diags {
		log.Printf("[WARN] screener diagnostic %s: %s %s", d.Ticker, d.Kind, d.Detail)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
