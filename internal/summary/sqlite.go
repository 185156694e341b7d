package summary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS daily_summary (
	day             TEXT PRIMARY KEY,
	total_stakes    INTEGER NOT NULL DEFAULT 0,
	total_districts INTEGER NOT NULL DEFAULT 0,
	total_wards     INTEGER NOT NULL DEFAULT 0,
	total_branches  INTEGER NOT NULL DEFAULT 0,
	net_stakes      INTEGER NOT NULL DEFAULT 0,
	net_districts   INTEGER NOT NULL DEFAULT 0,
	net_wards       INTEGER NOT NULL DEFAULT 0,
	net_branches    INTEGER NOT NULL DEFAULT 0,
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scrape_runs (
	id         TEXT PRIMARY KEY,
	layer      TEXT NOT NULL,
	records    INTEGER NOT NULL,
	started_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_layer ON scrape_runs(layer);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertDay(ctx context.Context, row Row) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_summary (
			day, total_stakes, total_districts, total_wards, total_branches,
			net_stakes, net_districts, net_wards, net_branches, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			total_stakes = excluded.total_stakes,
			total_districts = excluded.total_districts,
			total_wards = excluded.total_wards,
			total_branches = excluded.total_branches,
			net_stakes = excluded.net_stakes,
			net_districts = excluded.net_districts,
			net_wards = excluded.net_wards,
			net_branches = excluded.net_branches,
			updated_at = excluded.updated_at`,
		row.Day, row.TotalStakes, row.TotalDistricts, row.TotalWards, row.TotalBranches,
		row.NetStakes, row.NetDistricts, row.NetWards, row.NetBranches, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert day %s", row.Day)
}

func (s *SQLiteStore) GetDay(ctx context.Context, day string) (*Row, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, total_stakes, total_districts, total_wards, total_branches,
		       net_stakes, net_districts, net_wards, net_branches
		FROM daily_summary WHERE day = ?`, day)

	var r Row
	err := row.Scan(
		&r.Day, &r.TotalStakes, &r.TotalDistricts, &r.TotalWards, &r.TotalBranches,
		&r.NetStakes, &r.NetDistricts, &r.NetWards, &r.NetBranches,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get day %s", day)
	}
	return &r, nil
}

func (s *SQLiteStore) ListDays(ctx context.Context, limit int) ([]Row, error) {
	query := `
		SELECT day, total_stakes, total_districts, total_wards, total_branches,
		       net_stakes, net_districts, net_wards, net_branches
		FROM daily_summary ORDER BY day ASC`
	var args []any
	if limit > 0 {
		// Newest N days, still returned ascending.
		query = `SELECT * FROM (
			SELECT day, total_stakes, total_districts, total_wards, total_branches,
			       net_stakes, net_districts, net_wards, net_branches
			FROM daily_summary ORDER BY day DESC LIMIT ?
		) ORDER BY day ASC`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list days")
	}
	defer rows.Close() //nolint:errcheck

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.Day, &r.TotalStakes, &r.TotalDistricts, &r.TotalWards, &r.TotalBranches,
			&r.NetStakes, &r.NetDistricts, &r.NetWards, &r.NetBranches,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan day row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate day rows")
}

func (s *SQLiteStore) RecordRun(ctx context.Context, layer string, records int) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Layer:     layer,
		Records:   records,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (id, layer, records, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Layer, run.Records, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scrape run")
	}
	return run, nil
}
