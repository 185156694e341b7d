// Package snapshot persists fetched collections as flat JSON files.
// A snapshot is the complete dataset at a point in time; a re-fetch
// overwrites it rather than updating records in place.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/chambersfam/locator-cli/internal/model"
)

// DayFormat names dated unit snapshot files, e.g. wards_2026_08_30.json.
const DayFormat = "2006_01_02"

// Store reads and writes snapshot files under a data directory.
type Store struct {
	Dir string
}

// New creates a snapshot store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// UnitsDocument is the on-disk shape of a dated unit snapshot.
type UnitsDocument struct {
	Units     []model.Unit `json:"units"`
	FetchedAt time.Time    `json:"timestamp"`
}

// BuildingsPath returns the path of the buildings snapshot.
func (s *Store) BuildingsPath() string {
	return filepath.Join(s.Dir, "buildings.json")
}

// UnitsPath returns the dated unit snapshot path for a file prefix
// ("wards" or "stakes") and day.
func (s *Store) UnitsPath(prefix string, day time.Time) string {
	return filepath.Join(s.Dir, prefix+"_"+day.Format(DayFormat)+".json")
}

// DiffDir returns the daily diff directory for a day.
func (s *Store) DiffDir(day time.Time) string {
	return filepath.Join(s.Dir, "daily", day.Format(DayFormat))
}

// WriteBuildings overwrites the buildings snapshot.
func (s *Store) WriteBuildings(buildings []model.Building) error {
	return s.writeJSON(s.BuildingsPath(), buildings)
}

// LoadBuildings reads the buildings snapshot.
func (s *Store) LoadBuildings() ([]model.Building, error) {
	return LoadBuildings(s.BuildingsPath())
}

// LoadBuildings reads a buildings snapshot from an explicit path.
func LoadBuildings(path string) ([]model.Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: read %s", path)
	}
	var buildings []model.Building
	if err := json.Unmarshal(data, &buildings); err != nil {
		return nil, eris.Wrapf(err, "snapshot: parse %s", path)
	}
	return buildings, nil
}

// WriteUnits writes the dated unit snapshot for day and removes the
// snapshot from two days before, keeping yesterday's for diffing.
func (s *Store) WriteUnits(prefix string, day time.Time, units []model.Unit, fetchedAt time.Time) error {
	doc := UnitsDocument{Units: units, FetchedAt: fetchedAt}
	if err := s.writeJSON(s.UnitsPath(prefix, day), doc); err != nil {
		return err
	}

	stale := s.UnitsPath(prefix, day.AddDate(0, 0, -2))
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("could not remove stale snapshot", zap.String("path", stale), zap.Error(err))
	}
	return nil
}

// LoadUnits reads the dated unit snapshot for day. A missing file
// returns an empty set, so the first scrape diffs against nothing.
func (s *Store) LoadUnits(prefix string, day time.Time) (model.UnitSet, error) {
	path := s.UnitsPath(prefix, day)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.UnitSet{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: read %s", path)
	}

	var doc UnitsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "snapshot: parse %s", path)
	}
	return model.NewUnitSet(doc.Units), nil
}

// WriteDailyFile writes one added/removed diff file under the day's
// diff directory, e.g. daily/2026_08_30/wards_added.json.
func (s *Store) WriteDailyFile(day time.Time, name string, units []model.Unit) error {
	dir := s.DiffDir(day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "snapshot: create diff dir %s", dir)
	}
	return s.writeJSON(filepath.Join(dir, name+".json"), units)
}

// writeJSON writes v to path atomically via a temp file and rename.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "snapshot: create dir for %s", path)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "snapshot: marshal %s", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "snapshot: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "snapshot: rename %s", path)
	}
	return nil
}
