// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/netqaoa/optimize"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

var (
	// ErrNotFound is returned for an unknown run id.
	ErrNotFound = errors.New("store: run not found")

	// ErrFinished is returned when finishing or extending a finished run.
	ErrFinished = errors.New("store: run already finished")
)

// Status of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one row of the runs table.
type Run struct {
	ID         string          `json:"id"`
	Status     Status          `json:"status"`
	Backend    string          `json:"backend"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Network    json.RawMessage `json:"network,omitempty"`
	Params     json.RawMessage `json:"params,omitempty"`
	Report     json.RawMessage `json:"report,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// NewRun describes a run about to start. Network and Params are encoded
// as JSON.
type NewRun struct {
	Backend string
	Network any
	Params  any
}

// Store is a SQLite-backed run history. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use Memory for a throwaway store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != Memory {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if path == Memory {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err = s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		status      TEXT NOT NULL,
		backend     TEXT NOT NULL DEFAULT '',
		created_at  INTEGER NOT NULL,
		finished_at INTEGER,
		network     TEXT,
		params      TEXT,
		report      TEXT,
		error       TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		run_id     TEXT NOT NULL,
		idx        INTEGER NOT NULL,
		phase      TEXT NOT NULL,
		angles     TEXT NOT NULL,
		energy     REAL NOT NULL,
		attempts   INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// CreateRun inserts a running run and returns it with a fresh id.
func (s *Store) CreateRun(ctx context.Context, in NewRun) (Run, error) {
	network, err := marshalNull(in.Network)
	if err != nil {
		return Run{}, fmt.Errorf("store: encode network: %w", err)
	}
	params, err := marshalNull(in.Params)
	if err != nil {
		return Run{}, fmt.Errorf("store: encode params: %w", err)
	}

	run := Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		Backend:   in.Backend,
		CreatedAt: s.now(),
		Network:   rawOf(network),
		Params:    rawOf(params),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, backend, created_at, network, params) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Status), run.Backend, run.CreatedAt.UnixNano(), network, params)
	if err != nil {
		return Run{}, fmt.Errorf("store: insert run: %w", err)
	}
	return run, nil
}

// RecordEvaluation appends one evaluation to a running run.
func (s *Store) RecordEvaluation(ctx context.Context, runID string, ev optimize.Evaluation) error {
	if err := s.requireRunning(ctx, runID); err != nil {
		return err
	}
	angles, err := json.Marshal(ev.Angles)
	if err != nil {
		return fmt.Errorf("store: encode angles: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (run_id, idx, phase, angles, energy, attempts, elapsed_ns) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, ev.Index, string(ev.Phase), string(angles), ev.Energy, ev.Attempts, ev.Elapsed.Nanoseconds())
	if err != nil {
		return fmt.Errorf("store: insert evaluation %d of %s: %w", ev.Index, runID, err)
	}
	return nil
}

// FinishRun closes a running run. A nil runErr marks it succeeded with
// report as its JSON payload; otherwise it is failed and report may be nil.
func (s *Store) FinishRun(ctx context.Context, runID string, report any, runErr error) error {
	if err := s.requireRunning(ctx, runID); err != nil {
		return err
	}
	payload, err := marshalNull(report)
	if err != nil {
		return fmt.Errorf("store: encode report: %w", err)
	}
	status, msg := StatusSucceeded, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, report = ?, error = ? WHERE id = ?`,
		string(status), s.now().UnixNano(), payload, msg, runID)
	if err != nil {
		return fmt.Errorf("store: finish run %s: %w", runID, err)
	}
	return nil
}

// GetRun loads one run.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return run, err
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return out, nil
}

// Evaluations returns the trace of a run in index order.
func (s *Store) Evaluations(ctx context.Context, runID string) ([]optimize.Evaluation, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, phase, angles, energy, attempts, elapsed_ns FROM evaluations WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query evaluations: %w", err)
	}
	defer rows.Close()

	var out []optimize.Evaluation
	for rows.Next() {
		var (
			ev      optimize.Evaluation
			phase   string
			angles  string
			elapsed int64
		)
		if err := rows.Scan(&ev.Index, &phase, &angles, &ev.Energy, &ev.Attempts, &elapsed); err != nil {
			return nil, fmt.Errorf("store: scan evaluation: %w", err)
		}
		if err := json.Unmarshal([]byte(angles), &ev.Angles); err != nil {
			return nil, fmt.Errorf("store: decode angles of evaluation %d: %w", ev.Index, err)
		}
		ev.Phase = optimize.Phase(phase)
		ev.Elapsed = time.Duration(elapsed)
		out = append(out, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate evaluations: %w", err)
	}
	return out, nil
}

func (s *Store) requireRunning(ctx context.Context, runID string) error {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM runs WHERE id = ?`, runID).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	case err != nil:
		return fmt.Errorf("store: load run %s: %w", runID, err)
	case Status(status) != StatusRunning:
		return fmt.Errorf("%w: %s is %s", ErrFinished, runID, status)
	}
	return nil
}

const runColumns = `id, status, backend, created_at, finished_at, network, params, report, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                     Run
		status                  string
		created                 int64
		finished                sql.NullInt64
		network, params, report sql.NullString
	)
	if err := sc.Scan(&run.ID, &status, &run.Backend, &created, &finished, &network, &params, &report, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	run.Status = Status(status)
	run.CreatedAt = time.Unix(0, created).UTC()
	if finished.Valid {
		t := time.Unix(0, finished.Int64).UTC()
		run.FinishedAt = &t
	}
	run.Network = rawOf(network)
	run.Params = rawOf(params)
	run.Report = rawOf(report)
	return run, nil
}

// marshalNull encodes v as JSON, mapping nil to SQL NULL.
func marshalNull(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if s := strings.TrimSpace(string(data)); s == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func rawOf(ns sql.NullString) json.RawMessage {
	if !ns.Valid {
		return nil
	}
	return json.RawMessage(ns.String)
}
