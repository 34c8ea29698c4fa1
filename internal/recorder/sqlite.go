package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists backtest runs to a SQLite database.
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

	// WAL mode for better concurrent read performance.
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
			id                    TEXT PRIMARY KEY,
			timestamp             INTEGER NOT NULL,
			symbol                TEXT NOT NULL,
			start_date            TEXT,
			end_date              TEXT,
			rsi_threshold         REAL,
			sma_period            INTEGER,
			initial_capital       REAL,
			total_trades          INTEGER,
			success_ratio         REAL,
			final_capital         REAL,
			strategy_profit_pct   REAL,
			annualized_return     REAL,
			profit_factor         REAL,
			profit_factor_defined INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			entry_date   TEXT,
			entry_price  REAL,
			exit_date    TEXT,
			exit_price   REAL,
			quantity     REAL,
			capital_used REAL,
			pnl_pct      REAL,
			holding_days INTEGER,
			profit_loss  REAL,
			reason       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS capital_points (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL,
			seq     INTEGER NOT NULL,
			capital REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_capital_run ON capital_points(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run summary, its trades, and its capital trajectory
// in one transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res := rec.Result
	defined := 0
	if res.ProfitFactorDefined {
		defined = 1
	}
	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, symbol, start_date, end_date,
		 rsi_threshold, sma_period, initial_capital,
		 total_trades, success_ratio, final_capital,
		 strategy_profit_pct, annualized_return,
		 profit_factor, profit_factor_defined)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, time.Now().Unix(), rec.Symbol,
		rec.Start.Format("2006-01-02"), rec.End.Format("2006-01-02"),
		rec.RSIThreshold, rec.SMAPeriod, rec.InitialCapital,
		res.TotalTrades, res.SuccessRatio, res.FinalCapital,
		res.StrategyProfitPct, res.AnnualizedReturn,
		res.ProfitFactor, defined,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range res.Trades {
		if _, err := tx.Exec(`INSERT INTO trades
			(run_id, seq, entry_date, entry_price, exit_date, exit_price,
			 quantity, capital_used, pnl_pct, holding_days, profit_loss, reason)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, i,
			t.EntryTime.Format("2006-01-02"), t.EntryPrice,
			t.ExitTime.Format("2006-01-02"), t.ExitPrice,
			t.Quantity, t.CapitalUsed, t.PnlPct, t.HoldingDays,
			t.ProfitLoss, string(t.Reason),
		); err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}

	for i, c := range res.Capital {
		if _, err := tx.Exec(
			`INSERT INTO capital_points (run_id, seq, capital) VALUES (?,?,?)`,
			rec.ID, i, c,
		); err != nil {
			return fmt.Errorf("insert capital point %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
