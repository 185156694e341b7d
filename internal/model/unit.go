package model

// Organization type display values reported by the locator. The unit
// "type" string itself (e.g. "WARD__ENGLISH") is an uncontrolled
// enumeration and is treated as opaque everywhere.
const (
	OrgWard     = "Ward"
	OrgBranch   = "Branch"
	OrgStake    = "Stake"
	OrgDistrict = "District"
)

// OrganizationType classifies a unit (Ward, Branch, Stake, District).
type OrganizationType struct {
	ID      int64  `json:"id"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Language is the language a unit meets in.
type Language struct {
	ID      int64  `json:"id"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Hours holds a unit's meeting schedule, e.g. "Su 11:00".
type Hours struct {
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Unit is a congregation (ward, branch, stake, district) as returned by
// the locator, either standalone or embedded in a building's associated
// list.
type Unit struct {
	ID               string            `json:"id"`
	Type             string            `json:"type,omitempty"`
	SubType          string            `json:"subType,omitempty"`
	Identifiers      Identifiers       `json:"identifiers,omitempty"`
	Name             string            `json:"name,omitempty"`
	NameDisplay      string            `json:"nameDisplay,omitempty"`
	TypeDisplay      string            `json:"typeDisplay,omitempty"`
	OrganizationType *OrganizationType `json:"organizationType,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	Hours            *Hours            `json:"hours,omitempty"`
	Language         *Language         `json:"language,omitempty"`
	Provider         string            `json:"provider,omitempty"`
	Specialized      bool              `json:"specialized,omitempty"`
	Created          string            `json:"created,omitempty"`
	Updated          string            `json:"updated,omitempty"`
}

// Key identifies a unit for dedup and diffing. The locator occasionally
// reuses IDs across renames, so the name participates too.
func (u *Unit) Key() string {
	return u.ID + "\x00" + u.Name
}

// OrgDisplay returns the organization type display value, or "" when
// the locator omitted it.
func (u *Unit) OrgDisplay() string {
	if u.OrganizationType == nil {
		return ""
	}
	return u.OrganizationType.Display
}

// Country returns the unit's country, or "" when no address data exists.
func (u *Unit) Country() string {
	if u.Address == nil || u.Address.Formatted == NoAddressData {
		return ""
	}
	return u.Address.Country
}

// UnitSet is a collection of units deduplicated by Key.
type UnitSet map[string]Unit

// NewUnitSet builds a set from a slice of units.
func NewUnitSet(units []Unit) UnitSet {
	s := make(UnitSet, len(units))
	for _, u := range units {
		s[u.Key()] = u
	}
	return s
}

// Add inserts units into the set, returning how many were new.
func (s UnitSet) Add(units ...Unit) int {
	added := 0
	for _, u := range units {
		k := u.Key()
		if _, ok := s[k]; !ok {
			added++
		}
		s[k] = u
	}
	return added
}

// Slice returns the set's units in unspecified order.
func (s UnitSet) Slice() []Unit {
	out := make([]Unit, 0, len(s))
	for _, u := range s {
		out = append(out, u)
	}
	return out
}
