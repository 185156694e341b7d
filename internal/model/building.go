// Package model defines the building and unit records returned by the
// locator identify API. Field names mirror the upstream JSON schema.
package model

// NoAddressData is the formatted-address sentinel the locator returns
// for records without real address data.
const NoAddressData = "No Address Data"

// Identifiers holds the upstream identifiers attached to a record.
type Identifiers struct {
	FacilityID  string `json:"facilityId,omitempty"`
	StructureID string `json:"structureId,omitempty"`
	PropertyID  int64  `json:"propertyId,omitempty"`
	UnitNumber  int64  `json:"unitNumber,omitempty"`
	OrgID       int64  `json:"orgId,omitempty"`
}

// Address is a postal address as reported by the locator.
type Address struct {
	Street1      string   `json:"street1,omitempty"`
	Street2      string   `json:"street2,omitempty"`
	City         string   `json:"city,omitempty"`
	County       string   `json:"county,omitempty"`
	State        string   `json:"state,omitempty"`
	StateID      int64    `json:"stateId,omitempty"`
	StateCode    string   `json:"stateCode,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	Country      string   `json:"country,omitempty"`
	CountryID    int64    `json:"countryId,omitempty"`
	CountryCode2 string   `json:"countryCode2,omitempty"`
	CountryCode3 string   `json:"countryCode3,omitempty"`
	Formatted    string   `json:"formatted,omitempty"`
	Lines        []string `json:"lines,omitempty"`
}

// Size is a property or interior size measurement.
type Size struct {
	Value   int64  `json:"value"`
	Type    string `json:"type,omitempty"`
	Display string `json:"display,omitempty"`
}

// Geocode is an upstream geocode tag on a building.
type Geocode struct {
	Code string `json:"code,omitempty"`
	Type string `json:"type,omitempty"`
}

// Building is a physical meeting location scraped from the locator map.
type Building struct {
	ID           string      `json:"id"`
	Type         string      `json:"type,omitempty"`
	Identifiers  Identifiers `json:"identifiers,omitempty"`
	Name         string      `json:"name,omitempty"`
	NameDisplay  string      `json:"nameDisplay,omitempty"`
	TypeDisplay  string      `json:"typeDisplay,omitempty"`
	Address      *Address    `json:"address,omitempty"`
	PropertySize *Size       `json:"propertySize,omitempty"`
	InteriorSize *Size       `json:"interiorSize,omitempty"`
	Specialized  bool        `json:"specialized,omitempty"`
	Coordinates  []float64   `json:"coordinates,omitempty"`
	Geocodes     []Geocode   `json:"geocodes,omitempty"`
	Associated   []Unit      `json:"associated,omitempty"`
	Provider     string      `json:"provider,omitempty"`
	Created      string      `json:"created,omitempty"`
	Updated      string      `json:"updated,omitempty"`
}

// HasAddress reports whether the building carries usable address data.
// The locator emits a placeholder formatted string for records without one.
func (b *Building) HasAddress() bool {
	if b.Address == nil {
		return false
	}
	return b.Address.Formatted != NoAddressData
}

// Country returns the building's country, or "" when no address data exists.
func (b *Building) Country() string {
	if !b.HasAddress() {
		return ""
	}
	return b.Address.Country
}

// UnitCount returns the number of units associated with the building.
func (b *Building) UnitCount() int {
	return len(b.Associated)
}
