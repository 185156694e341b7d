// Package diff compares two daily unit snapshots and classifies the
// churn by organization type.
package diff

import (
	"sort"

	"go.uber.org/zap"

	"github.com/chambersfam/locator-cli/internal/model"
)

// Kind selects which pair of organization types a diff classifies.
type Kind string

const (
	// KindWard classifies units into wards and branches.
	KindWard Kind = "Ward"
	// KindStake classifies units into stakes and districts.
	KindStake Kind = "Stake"
)

// Major returns the organization display for the kind's larger unit.
func (k Kind) Major() string {
	if k == KindStake {
		return model.OrgStake
	}
	return model.OrgWard
}

// Minor returns the organization display for the kind's smaller unit.
func (k Kind) Minor() string {
	if k == KindStake {
		return model.OrgDistrict
	}
	return model.OrgBranch
}

// FilePrefixes returns the snapshot file prefixes for the kind's major
// and minor units ("wards"/"branches" or "stakes"/"districts").
func (k Kind) FilePrefixes() (major, minor string) {
	if k == KindStake {
		return "stakes", "districts"
	}
	return "wards", "branches"
}

// Result holds the classified churn between two snapshots.
type Result struct {
	MajorAdded   []model.Unit
	MajorRemoved []model.Unit
	MinorAdded   []model.Unit
	MinorRemoved []model.Unit

	// UnknownOrg collects units whose organization type matched
	// neither class. They are reported, never fatal.
	UnknownOrg []model.Unit
}

// Units diffs the new snapshot against the old one. A unit present in
// both days appears in neither added nor removed.
func Units(old, latest model.UnitSet, kind Kind) Result {
	var r Result

	for k, u := range latest {
		if _, ok := old[k]; ok {
			continue
		}
		r.classify(u, kind, &r.MajorAdded, &r.MinorAdded)
	}
	for k, u := range old {
		if _, ok := latest[k]; ok {
			continue
		}
		r.classify(u, kind, &r.MajorRemoved, &r.MinorRemoved)
	}

	if n := len(r.UnknownOrg); n > 0 {
		zap.L().Warn("units with unknown organization type in diff",
			zap.String("kind", string(kind)),
			zap.Int("count", n),
		)
	}

	sortUnits(r.MajorAdded)
	sortUnits(r.MajorRemoved)
	sortUnits(r.MinorAdded)
	sortUnits(r.MinorRemoved)
	return r
}

func (r *Result) classify(u model.Unit, kind Kind, major, minor *[]model.Unit) {
	switch u.OrgDisplay() {
	case kind.Major():
		*major = append(*major, u)
	case kind.Minor():
		*minor = append(*minor, u)
	default:
		r.UnknownOrg = append(r.UnknownOrg, u)
	}
}

// Count tallies a snapshot's units by the kind's two organization
// types. Units with an unrecognized organization type are returned for
// the caller to log.
func Count(units model.UnitSet, kind Kind) (major, minor int, unknown []model.Unit) {
	for _, u := range units {
		switch u.OrgDisplay() {
		case kind.Major():
			major++
		case kind.Minor():
			minor++
		default:
			unknown = append(unknown, u)
		}
	}
	return major, minor, unknown
}

func sortUnits(units []model.Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
}
