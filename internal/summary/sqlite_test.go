package summary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLiteStore_UpsertAndGetDay(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	row := Row{
		Day:         "2026-08-30",
		TotalStakes: 3500, TotalDistricts: 500,
		TotalWards: 24000, TotalBranches: 6000,
		NetStakes: 2, NetDistricts: -1, NetWards: 15, NetBranches: -4,
	}
	require.NoError(t, st.UpsertDay(ctx, row))

	got, err := st.GetDay(ctx, "2026-08-30")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, row, *got)
}

func TestSQLiteStore_GetDayAbsent(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetDay(context.Background(), "1999-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_UpsertSameDayKeepsOneRow(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertDay(ctx, Row{Day: "2026-08-30", TotalWards: 100}))
	require.NoError(t, st.UpsertDay(ctx, Row{Day: "2026-08-30", TotalWards: 105, NetWards: 5}))

	rows, err := st.ListDays(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 105, rows[0].TotalWards)
	assert.Equal(t, 5, rows[0].NetWards)
}

func TestSQLiteStore_ListDaysOrderAndLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, day := range []string{"2026-08-29", "2026-08-27", "2026-08-30", "2026-08-28"} {
		require.NoError(t, st.UpsertDay(ctx, Row{Day: day}))
	}

	rows, err := st.ListDays(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "2026-08-27", rows[0].Day)
	assert.Equal(t, "2026-08-30", rows[3].Day)

	rows, err = st.ListDays(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-08-29", rows[0].Day)
	assert.Equal(t, "2026-08-30", rows[1].Day)
}

func TestSQLiteStore_RecordRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.RecordRun(ctx, "wards", 24315)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "wards", run.Layer)
	assert.Equal(t, 24315, run.Records)
	assert.False(t, run.StartedAt.IsZero())

	second, err := st.RecordRun(ctx, "stakes", 3500)
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, second.ID)
}
