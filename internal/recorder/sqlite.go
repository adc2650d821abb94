package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"RSSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while the scheduler writes.
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
		`CREATE TABLE IF NOT EXISTS pair_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			trigger_type  TEXT,
			asset         TEXT NOT NULL,
			bench         TEXT NOT NULL,
			as_of         INTEGER,
			aligned_rows  INTEGER,
			sma_window    INTEGER,
			yellow_band   REAL,
			rs_sma_last   REAL,
			status        TEXT,
			reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_asset_ts ON pair_snapshots(asset, bench, timestamp)`,

		`CREATE TABLE IF NOT EXISTS rotation_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			trigger_type   TEXT,
			bench          TEXT,
			overall_status TEXT,
			overall_reason TEXT,
			credit_status  TEXT,
			credit_reason  TEXT,
			credit_last    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rotation_ts ON rotation_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rotation_sectors (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			status     TEXT,
			reason     TEXT,
			last_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rotation_sectors_run ON rotation_sectors(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPair(snap *PairSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := snap.Report
	st := rep.Status()
	rows := 0
	switch {
	case rep.Evaluation != nil:
		rows = rep.Evaluation.Table.Len()
	case rep.Insufficient != nil:
		rows = rep.Insufficient.Rows
	}

	_, err := r.db.Exec(`INSERT INTO pair_snapshots
		(run_id, timestamp, trigger_type, asset, bench, as_of, aligned_rows,
		 sma_window, yellow_band, rs_sma_last, status, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), string(snap.Trigger), rep.Asset, rep.Bench,
		rep.AsOf.Unix(), rows, rep.Params.Window, rep.Params.YellowBand,
		nullable(st.LastValue), string(st.Status), st.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordRotation(snap *RotationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := snap.Report
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO rotation_snapshots
		(run_id, timestamp, trigger_type, bench, overall_status, overall_reason,
		 credit_status, credit_reason, credit_last)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), string(snap.Trigger), rep.Bench,
		string(rep.Overall.Status), rep.Overall.Reason,
		string(rep.Credit.Result.Status), rep.Credit.Result.Reason, nullable(rep.Credit.Result.LastValue),
	); err != nil {
		return fmt.Errorf("insert rotation: %w", err)
	}

	for _, s := range rep.Sectors {
		if _, err := tx.Exec(`INSERT INTO rotation_sectors
			(run_id, symbol, status, reason, last_value) VALUES (?,?,?,?,?)`,
			snap.RunID, s.Symbol, string(s.Result.Status), s.Result.Reason, nullable(s.Result.LastValue),
		); err != nil {
			return fmt.Errorf("insert sector %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

// RecentPairs returns up to limit stored evaluations of asset vs bench, newest first.
func (r *SQLiteRecorder) RecentPairs(asset, bench string, limit int) ([]PairRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, trigger_type, asset, bench, as_of,
			aligned_rows, status, reason, rs_sma_last
		FROM pair_snapshots
		WHERE asset = ? AND bench = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, asset, bench, limit)
	if err != nil {
		return nil, fmt.Errorf("query pairs: %w", err)
	}
	defer rows.Close()

	var out []PairRecord
	for rows.Next() {
		var (
			rec      PairRecord
			ts, asOf int64
			trigger  string
			status   string
			last     sql.NullFloat64
		)
		if err := rows.Scan(&rec.RunID, &ts, &trigger, &rec.Asset, &rec.Bench, &asOf,
			&rec.AlignedRows, &status, &rec.Reason, &last); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0).UTC()
		rec.AsOf = time.Unix(asOf, 0).UTC()
		rec.Trigger = model.TriggerType(trigger)
		rec.Status = model.Status(status)
		rec.LastValue = math.NaN()
		if last.Valid {
			rec.LastValue = last.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
