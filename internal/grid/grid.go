// Package grid defines the scrape regions and generates the identify
// call grid for the unit layers.
package grid

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// Coordinate is one identify call anchor.
type Coordinate struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	City    string  `yaml:"city,omitempty"`
	Nearest int     `yaml:"nearest,omitempty"`
}

// Region is a bounding box split into a grid of identify calls, plus
// seed coordinates over areas dense enough that the grid undercounts.
type Region struct {
	Name        string       `yaml:"name"`
	MinLat      float64      `yaml:"min_lat"`
	MaxLat      float64      `yaml:"max_lat"`
	MinLon      float64      `yaml:"min_lon"`
	MaxLon      float64      `yaml:"max_lon"`
	Nearest     int          `yaml:"nearest"`
	Rows        int          `yaml:"rows"`
	Columns     int          `yaml:"columns"`
	Coordinates []Coordinate `yaml:"coordinates,omitempty"`
}

// Catalog is the full region configuration.
type Catalog struct {
	Regions               []Region     `yaml:"regions"`
	StakeCoordinates      []Coordinate `yaml:"stake_coordinates"`
	SpecializedWardLayers []string     `yaml:"specialized_ward_layers"`
}

// Load parses the embedded region catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(regionsYAML, &c); err != nil {
		return nil, eris.Wrap(err, "grid: parse regions")
	}
	for _, r := range c.Regions {
		if r.Rows <= 0 || r.Columns <= 0 {
			return nil, eris.Errorf("grid: region %s has invalid grid %dx%d", r.Name, r.Rows, r.Columns)
		}
		if r.MinLat >= r.MaxLat {
			return nil, eris.Errorf("grid: region %s has invalid latitude range", r.Name)
		}
	}
	return &c, nil
}

// Bounds returns the region's bounding box in lon/lat order. Regions
// crossing the antimeridian (MinLon > MaxLon) are not normalized; cell
// generation handles the wrap directly.
func (r *Region) Bounds() *geom.Bounds {
	return geom.NewBounds(geom.XY).SetCoords(
		geom.Coord{r.MinLon, r.MinLat},
		geom.Coord{r.MaxLon, r.MaxLat},
	)
}

// Cells returns the identify anchors for the region: the seed
// coordinates first, then the centroid of each grid cell. Seeds carry
// their own nearest cap; centroids use the region default.
func (r *Region) Cells() []Coordinate {
	b := r.Bounds()

	lonSpan := b.Max(0) - b.Min(0)
	if r.MinLon > r.MaxLon {
		// Antimeridian wrap, e.g. the Pacific region.
		lonSpan = (180 - r.MinLon) + (r.MaxLon + 180)
	}
	latStep := (b.Max(1) - b.Min(1)) / float64(r.Rows)
	lonStep := lonSpan / float64(r.Columns)

	cells := make([]Coordinate, 0, len(r.Coordinates)+r.Rows*r.Columns)
	cells = append(cells, r.Coordinates...)

	for i := 0; i < r.Rows; i++ {
		for j := 0; j < r.Columns; j++ {
			lat := b.Min(1) + (float64(i)+0.5)*latStep
			lon := r.MinLon + (float64(j)+0.5)*lonStep
			if lon > 180 {
				lon -= 360
			}
			cells = append(cells, Coordinate{Lat: lat, Lon: lon, Nearest: r.Nearest})
		}
	}
	return cells
}
