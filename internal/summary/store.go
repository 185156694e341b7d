// Package summary persists the daily unit totals and net changes that
// the scrape commands accumulate across runs.
package summary

import (
	"context"
	"time"
)

// DayLayout formats summary row keys.
const DayLayout = "2006-01-02"

// Row is one day's totals and day-over-day net changes.
type Row struct {
	Day            string `json:"day"`
	TotalStakes    int    `json:"total_stakes"`
	TotalDistricts int    `json:"total_districts"`
	TotalWards     int    `json:"total_wards"`
	TotalBranches  int    `json:"total_branches"`
	NetStakes      int    `json:"net_stakes"`
	NetDistricts   int    `json:"net_districts"`
	NetWards       int    `json:"net_wards"`
	NetBranches    int    `json:"net_branches"`
}

// Run records one scrape invocation.
type Run struct {
	ID        string    `json:"id"`
	Layer     string    `json:"layer"`
	Records   int       `json:"records"`
	StartedAt time.Time `json:"started_at"`
}

// Store persists daily summaries and scrape runs.
type Store interface {
	// UpsertDay inserts or replaces the row for row.Day, so a re-run
	// on the same day overwrites rather than appends.
	UpsertDay(ctx context.Context, row Row) error

	// GetDay returns the row for a day, or nil when absent.
	GetDay(ctx context.Context, day string) (*Row, error)

	// ListDays returns rows in ascending day order, newest-limited
	// when limit > 0.
	ListDays(ctx context.Context, limit int) ([]Row, error)

	// RecordRun stores a scrape run and returns it with its assigned ID.
	RecordRun(ctx context.Context, layer string, records int) (*Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
