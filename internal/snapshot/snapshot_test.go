package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambersfam/locator-cli/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestBuildings_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	buildings := []model.Building{
		{
			ID:      "b1",
			Name:    "Logan Chapel",
			Address: &model.Address{City: "Logan", Country: "United States"},
			Associated: []model.Unit{
				{ID: "u1", Type: "WARD__ENGLISH", Name: "Logan 1st Ward"},
			},
		},
		{ID: "b2", Name: "Bare Building"},
	}

	require.NoError(t, s.WriteBuildings(buildings))

	loaded, err := s.LoadBuildings()
	require.NoError(t, err)
	assert.Equal(t, buildings, loaded)

	// A re-scrape overwrites rather than appends.
	require.NoError(t, s.WriteBuildings(buildings[:1]))
	loaded, err = s.LoadBuildings()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadBuildings_MissingFile(t *testing.T) {
	_, err := LoadBuildings(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestUnits_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	units := []model.Unit{
		{ID: "u1", Name: "Logan 1st Ward"},
		{ID: "u2", Name: "Logan 2nd Ward"},
	}
	require.NoError(t, s.WriteUnits("wards", day, units, day))

	set, err := s.LoadUnits("wards", day)
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, (&units[0]).Key())
}

func TestLoadUnits_MissingFileReturnsEmptySet(t *testing.T) {
	s := newTestStore(t)

	set, err := s.LoadUnits("wards", time.Now())
	require.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestWriteUnits_PrunesEreyesterday(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	units := []model.Unit{{ID: "u1", Name: "Logan 1st Ward"}}
	require.NoError(t, s.WriteUnits("wards", day.AddDate(0, 0, -2), units, day))
	require.NoError(t, s.WriteUnits("wards", day.AddDate(0, 0, -1), units, day))
	require.NoError(t, s.WriteUnits("wards", day, units, day))

	_, err := os.Stat(s.UnitsPath("wards", day.AddDate(0, 0, -2)))
	assert.True(t, os.IsNotExist(err), "two-day-old snapshot should be pruned")

	_, err = os.Stat(s.UnitsPath("wards", day.AddDate(0, 0, -1)))
	assert.NoError(t, err, "yesterday's snapshot must survive for diffing")
	_, err = os.Stat(s.UnitsPath("wards", day))
	assert.NoError(t, err)
}

func TestWriteUnits_DifferentPrefixesIndependent(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.WriteUnits("wards", day, []model.Unit{{ID: "u1"}}, day))
	require.NoError(t, s.WriteUnits("stakes", day, []model.Unit{{ID: "s1"}}, day))

	wards, err := s.LoadUnits("wards", day)
	require.NoError(t, err)
	stakes, err := s.LoadUnits("stakes", day)
	require.NoError(t, err)
	assert.Len(t, wards, 1)
	assert.Len(t, stakes, 1)
	assert.NotContains(t, wards, "s1\x00")
}

func TestWriteDailyFile(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	units := []model.Unit{{ID: "u1", Name: "Logan 1st Ward"}}
	require.NoError(t, s.WriteDailyFile(day, "wards_added", units))
	require.NoError(t, s.WriteDailyFile(day, "wards_removed", nil))

	added := filepath.Join(s.DiffDir(day), "wards_added.json")
	_, err := os.Stat(added)
	require.NoError(t, err)
	assert.Contains(t, added, filepath.Join("daily", "2026_08_30"))

	data, err := os.ReadFile(filepath.Join(s.DiffDir(day), "wards_removed.json"))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestWriteJSON_NoTempFileLeftBehind(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteBuildings(nil))

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
