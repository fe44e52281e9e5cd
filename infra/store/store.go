// Package store persists scheduling runs and their dispatch in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/lib/pq"

	"github.com/kilianp07/unitcommit/core/factory"
	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/infra/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS uc_runs (
	run_id      TEXT PRIMARY KEY,
	backend     TEXT NOT NULL,
	state       TEXT NOT NULL,
	units       INTEGER NOT NULL,
	variables   INTEGER NOT NULL,
	rows        INTEGER NOT NULL,
	binaries    INTEGER NOT NULL,
	total_cost  DOUBLE PRECISION NOT NULL,
	duration_ms BIGINT NOT NULL,
	violations  INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS uc_dispatch (
	run_id   TEXT NOT NULL,
	unit     TEXT NOT NULL,
	role     TEXT NOT NULL DEFAULT '',
	hour     INTEGER NOT NULL,
	starts   TIMESTAMPTZ NOT NULL,
	power_mw DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, unit, hour)
);`

// DefaultTimeout bounds every database call made by a sink method.
const DefaultTimeout = 10 * time.Second

// Config holds the connection settings.
type Config struct {
	DSN string `json:"dsn"`
	// Migrate creates the tables on open.
	Migrate bool          `json:"migrate"`
	Timeout time.Duration `json:"timeout"`
}

// Store records runs and schedules. It implements the metrics sink
// interfaces so it can be listed among the configured sinks.
type Store struct {
	db      *sql.DB
	log     logger.Logger
	timeout time.Duration
}

// Open connects to PostgreSQL and optionally creates the tables.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store dsn is required")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := New(db)
	if cfg.Timeout > 0 {
		s.timeout = cfg.Timeout
	}
	if cfg.Migrate {
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db, log: logger.New("store"), timeout: DefaultTimeout}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// RecordRun upserts the run summary.
func (s *Store) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uc_runs (run_id, backend, state, units, variables, rows, binaries,
			total_cost, duration_ms, violations, error, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE SET
			backend = EXCLUDED.backend,
			state = EXCLUDED.state,
			units = EXCLUDED.units,
			variables = EXCLUDED.variables,
			rows = EXCLUDED.rows,
			binaries = EXCLUDED.binaries,
			total_cost = EXCLUDED.total_cost,
			duration_ms = EXCLUDED.duration_ms,
			violations = EXCLUDED.violations,
			error = EXCLUDED.error,
			recorded_at = EXCLUDED.recorded_at`,
		ev.RunID, ev.Backend, ev.State, ev.Units, ev.Variables, ev.Rows, ev.Binaries,
		ev.TotalCost, ev.Duration.Milliseconds(), ev.Violations, ev.Error, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", ev.RunID, err)
	}
	return nil
}

// Row is one persisted unit-hour.
type Row struct {
	Unit  string
	Role  string
	Hour  int
	Start time.Time
	Power float64
}

// Rows flattens a schedule event ordered by unit then hour.
func Rows(ev coremetrics.ScheduleEvent) []Row {
	if ev.Schedule == nil {
		return nil
	}
	names := make([]string, 0, len(ev.Schedule.Units))
	for n := range ev.Schedule.Units {
		names = append(names, n)
	}
	sort.Strings(names)
	var rows []Row
	for _, n := range names {
		hours := ev.Schedule.Units[n]
		keys := make([]int, 0, len(hours))
		for h := range hours {
			keys = append(keys, h)
		}
		sort.Ints(keys)
		for _, h := range keys {
			rows = append(rows, Row{Unit: n, Role: ev.Roles[n], Hour: h, Start: ev.HourTime(h).UTC(), Power: hours[h]})
		}
	}
	return rows
}

// RecordSchedule replaces the dispatch rows of the run in one transaction.
func (s *Store) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	rows := Rows(ev)
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM uc_dispatch WHERE run_id = $1`, ev.RunID); err != nil {
		return fmt.Errorf("failed to delete existing dispatch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO uc_dispatch (run_id, unit, role, hour, starts, power_mw)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id, unit, hour) DO UPDATE SET
			role = EXCLUDED.role,
			starts = EXCLUDED.starts,
			power_mw = EXCLUDED.power_mw`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, ev.RunID, r.Unit, r.Role, r.Hour, r.Start, r.Power); err != nil {
			return fmt.Errorf("failed to insert %s hour %d: %w", r.Unit, r.Hour, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debugf("saved %d dispatch rows for run %s", len(rows), ev.RunID)
	return nil
}

// LoadSchedule reads back the dispatch of a run. The total cost comes
// from the run summary when one was recorded.
func (s *Store) LoadSchedule(ctx context.Context, runID string) (*model.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit, hour, power_mw FROM uc_dispatch
		WHERE run_id = $1 ORDER BY unit, hour`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch: %w", err)
	}
	defer rows.Close()

	sched := model.NewSchedule()
	sched.RunID = runID
	n := 0
	for rows.Next() {
		var unit string
		var hour int
		var power float64
		if err := rows.Scan(&unit, &hour, &power); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		sched.Set(unit, hour, power)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatch: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("no dispatch stored for run %s: %w", runID, sql.ErrNoRows)
	}

	var cost sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `SELECT total_cost FROM uc_runs WHERE run_id = $1`, runID).Scan(&cost)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	if cost.Valid {
		sched.TotalCost = cost.Float64
	}
	return sched, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func init() {
	_ = coremetrics.RegisterMetricsSink("postgres", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		cfg := Config{Migrate: true}
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		s, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
