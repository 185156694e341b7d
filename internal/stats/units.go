package stats

import (
	"strings"

	"github.com/chambersfam/locator-cli/internal/model"
)

// UnknownCountry buckets units without usable address data.
const UnknownCountry = "Unknown"

// UnitsByCountry counts units per country. Units without address data
// land under UnknownCountry.
func UnitsByCountry(units model.UnitSet) map[string]int {
	counts := make(map[string]int)
	for _, u := range units {
		country := u.Country()
		if country == "" {
			country = UnknownCountry
		}
		counts[country]++
	}
	return counts
}

// CreatedByYear counts units by creation year and organization type.
// Units without a created timestamp or organization type are counted
// under "Unknown".
func CreatedByYear(units model.UnitSet) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	add := func(year, org string) {
		if counts[year] == nil {
			counts[year] = make(map[string]int)
		}
		counts[year][org]++
	}

	for _, u := range units {
		year := "Unknown"
		if u.Created != "" {
			year, _, _ = strings.Cut(u.Created, "-")
		}
		org := u.OrgDisplay()
		if org == "" {
			org = "Unknown"
		}
		add(year, org)
	}
	return counts
}
