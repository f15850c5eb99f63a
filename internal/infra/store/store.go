// Package store provides SQLite-backed solve history for Millrun.
// Uses WAL mode for concurrent reads and crash-safe writes. The solver
// core persists nothing — recording runs is purely a serving-layer
// concern, and the store is optional.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/millrun-io/millrun/internal/domain"
)

// DB wraps a SQLite connection holding the run history.
type DB struct {
	db *sql.DB
}

// Run is one recorded solve: its inputs, outcome, and timings.
type Run struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Status         domain.Status   `json:"status"`
	Makespan       int             `json:"makespan"`
	ViolationHours int             `json:"violation_hours"`
	SolveMillis    int64           `json:"solve_ms"`
	Scenario       domain.Scenario `json:"scenario,omitempty"`
	Result         domain.Result   `json:"result,omitempty"`
}

// Open creates or opens the history database at dir/runs.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := filepath.Join(dir, "runs.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			created_at      INTEGER NOT NULL,
			status          TEXT NOT NULL,
			makespan        INTEGER NOT NULL,
			violation_hours INTEGER NOT NULL,
			solve_ms        INTEGER NOT NULL,
			scenario        TEXT NOT NULL,
			result          TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Run Repository ─────────────────────────────────────────────────────────

// Record stores a completed solve and returns its generated id.
func (d *DB) Record(sc domain.Scenario, res domain.Result) (string, error) {
	scJSON, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("marshal scenario: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	id := uuid.NewString()
	_, err = d.db.Exec(
		`INSERT INTO runs (id, created_at, status, makespan, violation_hours, solve_ms, scenario, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), string(res.Status), res.Makespan,
		res.TotalViolationHours, res.SolveTime.Milliseconds(),
		string(scJSON), string(resJSON),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// List returns run summaries, newest first. Scenario and result payloads
// are omitted; fetch a single run for the full record.
func (d *DB) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, created_at, status, makespan, violation_hours, solve_ms
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt int64
		var status string
		if err := rows.Scan(&r.ID, &createdAt, &status, &r.Makespan,
			&r.ViolationHours, &r.SolveMillis); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		r.Status = domain.Status(status)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get retrieves one run with its full scenario and result payloads.
func (d *DB) Get(id string) (*Run, error) {
	row := d.db.QueryRow(
		`SELECT id, created_at, status, makespan, violation_hours, solve_ms, scenario, result
		 FROM runs WHERE id = ?`, id,
	)

	var r Run
	var createdAt int64
	var status, scJSON, resJSON string
	err := row.Scan(&r.ID, &createdAt, &status, &r.Makespan,
		&r.ViolationHours, &r.SolveMillis, &scJSON, &resJSON)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt = time.Unix(createdAt, 0)
	r.Status = domain.Status(status)
	if err := json.Unmarshal([]byte(scJSON), &r.Scenario); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	if err := json.Unmarshal([]byte(resJSON), &r.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &r, nil
}
