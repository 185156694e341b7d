package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, c.Regions)
	assert.NotEmpty(t, c.StakeCoordinates)
	assert.NotEmpty(t, c.SpecializedWardLayers)

	names := make(map[string]bool)
	for _, r := range c.Regions {
		assert.False(t, names[r.Name], "duplicate region %s", r.Name)
		names[r.Name] = true
		assert.Positive(t, r.Nearest, "region %s", r.Name)
		assert.Positive(t, r.Rows, "region %s", r.Name)
		assert.Positive(t, r.Columns, "region %s", r.Name)
	}
	assert.True(t, names["North America"])

	for _, layer := range c.SpecializedWardLayers {
		assert.Contains(t, layer, "WARD__")
	}
}

func TestRegion_Cells_CountAndBounds(t *testing.T) {
	r := Region{
		Name:    "test",
		MinLat:  10,
		MaxLat:  20,
		MinLon:  -40,
		MaxLon:  -20,
		Nearest: 500,
		Rows:    4,
		Columns: 5,
		Coordinates: []Coordinate{
			{Lat: 15, Lon: -30, City: "seed", Nearest: 900},
		},
	}

	cells := r.Cells()
	require.Len(t, cells, 1+4*5)

	assert.Equal(t, "seed", cells[0].City)
	assert.Equal(t, 900, cells[0].Nearest)

	for _, c := range cells[1:] {
		assert.GreaterOrEqual(t, c.Lat, r.MinLat)
		assert.LessOrEqual(t, c.Lat, r.MaxLat)
		assert.GreaterOrEqual(t, c.Lon, r.MinLon)
		assert.LessOrEqual(t, c.Lon, r.MaxLon)
		assert.Equal(t, r.Nearest, c.Nearest)
	}

	// First centroid sits half a step inside the box.
	assert.InDelta(t, 11.25, cells[1].Lat, 1e-9)
	assert.InDelta(t, -38, cells[1].Lon, 1e-9)
}

func TestRegion_Cells_AntimeridianWrap(t *testing.T) {
	r := Region{
		Name:    "pacific",
		MinLat:  -30,
		MaxLat:  30,
		MinLon:  170,
		MaxLon:  -170,
		Nearest: 500,
		Rows:    2,
		Columns: 4,
	}

	cells := r.Cells()
	require.Len(t, cells, 8)

	for _, c := range cells {
		assert.GreaterOrEqual(t, c.Lon, -180.0)
		assert.LessOrEqual(t, c.Lon, 180.0)
		// Every centroid lies inside the 20 degree wrapped band.
		inBand := c.Lon >= 170 || c.Lon <= -170
		assert.True(t, inBand, "lon %f outside wrapped band", c.Lon)
	}

	// Span is 20 degrees across 4 columns; first column centroid is at
	// 170 + 2.5, last wraps past the antimeridian.
	assert.InDelta(t, 172.5, cells[0].Lon, 1e-9)
	assert.InDelta(t, -172.5, cells[3].Lon, 1e-9)
}

func TestRegion_Bounds(t *testing.T) {
	r := Region{MinLat: -10, MaxLat: 10, MinLon: -20, MaxLon: 20}
	b := r.Bounds()
	assert.Equal(t, -20.0, b.Min(0))
	assert.Equal(t, 20.0, b.Max(0))
	assert.Equal(t, -10.0, b.Min(1))
	assert.Equal(t, 10.0, b.Max(1))
}

func TestCatalog_AllCellsFinite(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	for _, r := range c.Regions {
		for _, cell := range r.Cells() {
			assert.GreaterOrEqual(t, cell.Lat, -90.0, "region %s", r.Name)
			assert.LessOrEqual(t, cell.Lat, 90.0, "region %s", r.Name)
			assert.GreaterOrEqual(t, cell.Lon, -180.0, "region %s", r.Name)
			assert.LessOrEqual(t, cell.Lon, 180.0, "region %s", r.Name)
		}
	}
}
