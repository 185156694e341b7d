package scraper

import (
	"context"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambersfam/locator-cli/internal/grid"
	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/pkg/locator"
)

// fakeClient serves canned units per layer and records the queries it saw.
type fakeClient struct {
	mu      sync.Mutex
	byLayer map[string][]model.Unit
	queries []locator.Query
	failOn  string
}

func (f *fakeClient) IdentifyUnits(_ context.Context, q locator.Query) ([]model.Unit, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.failOn != "" && q.Layers == f.failOn {
		return nil, eris.New("boom")
	}
	return f.byLayer[q.Layers], nil
}

func (f *fakeClient) IdentifyBuildings(context.Context, locator.Query) ([]model.Building, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeClient) FetchAllBuildings(context.Context, locator.Query) ([]model.Building, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeClient) layerQueries(layer string) []locator.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []locator.Query
	for _, q := range f.queries {
		if q.Layers == layer {
			out = append(out, q)
		}
	}
	return out
}

func testCatalog() *grid.Catalog {
	return &grid.Catalog{
		Regions: []grid.Region{
			{
				Name: "east", MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10,
				Nearest: 100, Rows: 2, Columns: 2,
			},
			{
				Name: "west", MinLat: 0, MaxLat: 10, MinLon: -10, MaxLon: 0,
				Nearest: 100, Rows: 1, Columns: 3,
				Coordinates: []grid.Coordinate{{Lat: 5, Lon: -5, City: "dense", Nearest: 400}},
			},
		},
		StakeCoordinates: []grid.Coordinate{
			{Lat: 40.76, Lon: -111.89, City: "Salt Lake City", Nearest: 1000},
			{Lat: -23.55, Lon: -46.63, City: "Sao Paulo", Nearest: 1000},
		},
		SpecializedWardLayers: []string{"WARD__YSA", "WARD__MILITARY"},
	}
}

func ward(id, name string) model.Unit {
	return model.Unit{
		ID: id, Name: name,
		OrganizationType: &model.OrganizationType{Display: model.OrgWard},
	}
}

func TestWards_DeduplicatesAcrossLayersAndCells(t *testing.T) {
	client := &fakeClient{byLayer: map[string][]model.Unit{
		"WARD__YSA":      {ward("y1", "Campus YSA Ward")},
		"WARD__MILITARY": {ward("m1", "Base Ward"), ward("y1", "Campus YSA Ward")},
		"WARD":           {ward("w1", "Logan 1st Ward"), ward("w2", "Logan 2nd Ward")},
	}}

	s := NewUnits(client, testCatalog(), 2)
	set, err := s.Wards(context.Background())
	require.NoError(t, err)

	// Every WARD cell returns the same two units; dedup keeps four total.
	assert.Len(t, set, 4)
	assert.Contains(t, set, (&model.Unit{ID: "y1", Name: "Campus YSA Ward"}).Key())
	assert.Contains(t, set, (&model.Unit{ID: "w2", Name: "Logan 2nd Ward"}).Key())

	// One call per specialized layer, one per grid cell plus seed.
	assert.Len(t, client.layerQueries("WARD__YSA"), 1)
	assert.Len(t, client.layerQueries("WARD__MILITARY"), 1)
	assert.Len(t, client.layerQueries("WARD"), 2*2+1*3+1)
}

func TestWards_SeedCarriesItsOwnNearest(t *testing.T) {
	client := &fakeClient{byLayer: map[string][]model.Unit{}}

	s := NewUnits(client, testCatalog(), 1)
	_, err := s.Wards(context.Background())
	require.NoError(t, err)

	nearests := make(map[int]int)
	for _, q := range client.layerQueries("WARD") {
		nearests[q.Nearest]++
	}
	assert.Equal(t, 1, nearests[400])
	assert.Equal(t, 7, nearests[100])
}

func TestWards_FailsOnSpecializedLayerError(t *testing.T) {
	client := &fakeClient{failOn: "WARD__MILITARY"}

	s := NewUnits(client, testCatalog(), 2)
	_, err := s.Wards(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARD__MILITARY")
}

func TestWards_FailsOnCellError(t *testing.T) {
	client := &fakeClient{failOn: "WARD"}

	s := NewUnits(client, testCatalog(), 2)
	_, err := s.Wards(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestStakes_ScrapesEveryAnchor(t *testing.T) {
	stake := model.Unit{
		ID: "s1", Name: "Logan Stake",
		OrganizationType: &model.OrganizationType{Display: model.OrgStake},
	}
	client := &fakeClient{byLayer: map[string][]model.Unit{"STAKE": {stake}}}

	s := NewUnits(client, testCatalog(), 2)
	set, err := s.Stakes(context.Background())
	require.NoError(t, err)

	assert.Len(t, set, 1)
	queries := client.layerQueries("STAKE")
	require.Len(t, queries, 2)
	assert.Equal(t, 1000, queries[0].Nearest)
}

func TestNewUnits_DefaultConcurrency(t *testing.T) {
	s := NewUnits(nil, nil, 0)
	assert.Equal(t, 20, s.Concurrency)
	s = NewUnits(nil, nil, 7)
	assert.Equal(t, 7, s.Concurrency)
}
