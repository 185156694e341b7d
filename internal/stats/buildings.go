// Package stats computes descriptive statistics over a loaded snapshot.
// Everything here is a pure reduce: the same snapshot always produces
// the same counts.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chambersfam/locator-cli/internal/model"
)

// SqFtPerSqM converts square meters to square feet.
const SqFtPerSqM = 10.7639

// SubtypeNull is the bucket for units without a subType tag.
const SubtypeNull = "NULL"

// DefaultBucketCap is where the units-per-building summary collapses
// into an N+ bucket.
const DefaultBucketCap = 5

// UnitsPerBuilding counts buildings grouped by their exact unit count.
func UnitsPerBuilding(buildings []model.Building) map[int]int {
	counts := make(map[int]int)
	for i := range buildings {
		counts[buildings[i].UnitCount()]++
	}
	return counts
}

// SummarizeBuckets collapses exact unit counts at cap and above into a
// single "cap+" bucket. The bucket sum always equals the building total.
func SummarizeBuckets(counts map[int]int, cap int) map[string]int {
	if cap <= 0 {
		cap = DefaultBucketCap
	}
	out := make(map[string]int)
	capKey := fmt.Sprintf("%d+", cap)
	for n, c := range counts {
		if n >= cap {
			out[capKey] += c
		} else {
			out[fmt.Sprintf("%d", n)] += c
		}
	}
	return out
}

// NoAddressCount counts buildings without usable address data.
func NoAddressCount(buildings []model.Building) int {
	n := 0
	for i := range buildings {
		if !buildings[i].HasAddress() {
			n++
		}
	}
	return n
}

// TotalUnits counts units across all buildings.
func TotalUnits(buildings []model.Building) int {
	n := 0
	for i := range buildings {
		n += buildings[i].UnitCount()
	}
	return n
}

// UnitTypeCounts groups associated units by their type string. The
// type taxonomy is undocumented upstream, so values are opaque keys.
func UnitTypeCounts(buildings []model.Building) map[string]int {
	counts := make(map[string]int)
	for i := range buildings {
		for _, u := range buildings[i].Associated {
			counts[u.Type]++
		}
	}
	return counts
}

// UnitSubtypeCounts groups associated units by subType, with units
// lacking one under SubtypeNull.
func UnitSubtypeCounts(buildings []model.Building) map[string]int {
	counts := make(map[string]int)
	for i := range buildings {
		for _, u := range buildings[i].Associated {
			if u.SubType == "" {
				counts[SubtypeNull]++
			} else {
				counts[u.SubType]++
			}
		}
	}
	return counts
}

// CountryBreakdown holds per-country building and unit counts.
type CountryBreakdown struct {
	Buildings            int `json:"buildings"`
	Units                int `json:"units"`
	BuildingsWithNoUnits int `json:"buildings_with_no_units"`
}

// CountryReport aggregates buildings and units per country, plus the
// address-quality tallies the per-country view cannot hold.
type CountryReport struct {
	Countries map[string]CountryBreakdown `json:"countries"`

	NoAddress         int `json:"buildings_with_no_address"`
	NoAddressButUnits int `json:"buildings_with_no_address_but_units"`
	NoUnits           int `json:"buildings_with_no_units"`
}

// ByCountry computes the per-country breakdown.
func ByCountry(buildings []model.Building) CountryReport {
	report := CountryReport{Countries: make(map[string]CountryBreakdown)}

	for i := range buildings {
		b := &buildings[i]
		country := b.Country()

		if country == "" {
			report.NoAddress++
			if b.UnitCount() > 0 {
				report.NoAddressButUnits++
			}
		}
		if b.UnitCount() == 0 {
			report.NoUnits++
		}
		if country == "" {
			continue
		}

		cb := report.Countries[country]
		cb.Buildings++
		cb.Units += b.UnitCount()
		if b.UnitCount() == 0 {
			cb.BuildingsWithNoUnits++
		}
		report.Countries[country] = cb
	}
	return report
}

// SizeByCountry holds average interior size for one country.
type SizeByCountry struct {
	Count       int   `json:"count"`
	TotalSqM    int64 `json:"total_size_sq_m"`
	AverageSqM  int64 `json:"avg_size_sq_m"`
	AverageSqFt int64 `json:"avg_size_sq_ft"`
}

// SizeReport holds the interior-size aggregation.
type SizeReport struct {
	Countries map[string]SizeByCountry `json:"countries"`

	GlobalAverageSqM  int64 `json:"global_avg_size_sq_m"`
	GlobalAverageSqFt int64 `json:"global_avg_size_sq_ft"`

	SkippedNoAddress    int `json:"skipped_no_address"`
	SkippedNoSize       int `json:"skipped_no_size"`
	SkippedInvalidSize  int `json:"skipped_invalid_size"`
	SkippedZeroInterior int `json:"skipped_zero_interior"`
}

// SizesByCountry computes average interior building size per country.
// Buildings without address or size data, with an interior size larger
// than the property size, or with a zero interior size are skipped and
// tallied. Sizes are reported in square meters by the locator.
func SizesByCountry(buildings []model.Building) SizeReport {
	report := SizeReport{Countries: make(map[string]SizeByCountry)}

	var globalTotal int64
	var globalCount int
	for i := range buildings {
		b := &buildings[i]
		if !b.HasAddress() || b.Address.Country == "" {
			report.SkippedNoAddress++
			continue
		}
		if b.InteriorSize == nil || b.PropertySize == nil {
			report.SkippedNoSize++
			continue
		}
		if b.InteriorSize.Value > b.PropertySize.Value {
			report.SkippedInvalidSize++
			continue
		}
		if b.InteriorSize.Value == 0 {
			report.SkippedZeroInterior++
			continue
		}

		sc := report.Countries[b.Address.Country]
		sc.Count++
		sc.TotalSqM += b.InteriorSize.Value
		report.Countries[b.Address.Country] = sc

		globalTotal += b.InteriorSize.Value
		globalCount++
	}

	for country, sc := range report.Countries {
		sc.AverageSqM = sc.TotalSqM / int64(sc.Count)
		sc.AverageSqFt = int64(float64(sc.AverageSqM) * SqFtPerSqM)
		report.Countries[country] = sc
	}
	if globalCount > 0 {
		report.GlobalAverageSqM = globalTotal / int64(globalCount)
		report.GlobalAverageSqFt = int64(float64(report.GlobalAverageSqM) * SqFtPerSqM)
	}
	return report
}

// MeetingAt finds buildings in a city with at least one unit meeting at
// the given time, e.g. "Su 11:00". YSA units are excluded, matching how
// the dataset is normally queried for visitor-facing schedules.
func MeetingAt(buildings []model.Building, city, at string) []model.Building {
	var matches []model.Building
	for i := range buildings {
		b := &buildings[i]
		if !b.HasAddress() || !strings.EqualFold(b.Address.City, city) {
			continue
		}
		for _, u := range b.Associated {
			if u.SubType == "YSA" {
				continue
			}
			if u.Hours == nil || !strings.Contains(u.Hours.Code, at) {
				continue
			}
			matches = append(matches, *b)
			break
		}
	}
	return matches
}

// SortedKeys returns map keys in ascending order for stable output.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
