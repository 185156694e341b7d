package summary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore from a connection string.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
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
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scrape_runs (
	id         UUID PRIMARY KEY,
	layer      TEXT NOT NULL,
	records    INTEGER NOT NULL,
	started_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_layer ON scrape_runs(layer);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertDay(ctx context.Context, row Row) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_summary (
			day, total_stakes, total_districts, total_wards, total_branches,
			net_stakes, net_districts, net_wards, net_branches, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (day) DO UPDATE SET
			total_stakes = EXCLUDED.total_stakes,
			total_districts = EXCLUDED.total_districts,
			total_wards = EXCLUDED.total_wards,
			total_branches = EXCLUDED.total_branches,
			net_stakes = EXCLUDED.net_stakes,
			net_districts = EXCLUDED.net_districts,
			net_wards = EXCLUDED.net_wards,
			net_branches = EXCLUDED.net_branches,
			updated_at = EXCLUDED.updated_at`,
		row.Day, row.TotalStakes, row.TotalDistricts, row.TotalWards, row.TotalBranches,
		row.NetStakes, row.NetDistricts, row.NetWards, row.NetBranches, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert day %s", row.Day)
}

func (s *PostgresStore) GetDay(ctx context.Context, day string) (*Row, error) {
	var r Row
	err := s.pool.QueryRow(ctx, `
		SELECT day, total_stakes, total_districts, total_wards, total_branches,
		       net_stakes, net_districts, net_wards, net_branches
		FROM daily_summary WHERE day = $1`, day,
	).Scan(
		&r.Day, &r.TotalStakes, &r.TotalDistricts, &r.TotalWards, &r.TotalBranches,
		&r.NetStakes, &r.NetDistricts, &r.NetWards, &r.NetBranches,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get day %s", day)
	}
	return &r, nil
}

func (s *PostgresStore) ListDays(ctx context.Context, limit int) ([]Row, error) {
	query := `
		SELECT day, total_stakes, total_districts, total_wards, total_branches,
		       net_stakes, net_districts, net_wards, net_branches
		FROM daily_summary ORDER BY day ASC`
	var args []any
	if limit > 0 {
		query = `SELECT * FROM (
			SELECT day, total_stakes, total_districts, total_wards, total_branches,
			       net_stakes, net_districts, net_wards, net_branches
			FROM daily_summary ORDER BY day DESC LIMIT $1
		) newest ORDER BY day ASC`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list days")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.Day, &r.TotalStakes, &r.TotalDistricts, &r.TotalWards, &r.TotalBranches,
			&r.NetStakes, &r.NetDistricts, &r.NetWards, &r.NetBranches,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan day row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate day rows")
}

func (s *PostgresStore) RecordRun(ctx context.Context, layer string, records int) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Layer:     layer,
		Records:   records,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_runs (id, layer, records, started_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Layer, run.Records, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert scrape run")
	}
	return run, nil
}
