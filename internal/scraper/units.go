// Package scraper orchestrates the unit layer scrapes over the region
// grid.
package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chambersfam/locator-cli/internal/grid"
	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/pkg/locator"
)

// Globally scraped specialized layers use a worldwide anchor; the
// largest such layer is around a thousand units, well under this cap.
const specializedLayerNearest = 2000

// Units scrapes the unit layers from the locator.
type Units struct {
	Client      locator.Client
	Catalog     *grid.Catalog
	Concurrency int
}

// NewUnits creates a unit scraper.
func NewUnits(client locator.Client, catalog *grid.Catalog, concurrency int) *Units {
	if concurrency <= 0 {
		concurrency = 20
	}
	return &Units{Client: client, Catalog: catalog, Concurrency: concurrency}
}

// Wards scrapes wards and branches: first each specialized ward layer
// globally, then the WARD layer cell by cell across every region. Any
// cell failure aborts the scrape with the cause.
func (s *Units) Wards(ctx context.Context) (model.UnitSet, error) {
	log := zap.L().With(zap.String("layer", "wards"))
	start := time.Now()

	set := model.UnitSet{}
	var mu sync.Mutex

	for _, layer := range s.Catalog.SpecializedWardLayers {
		units, err := s.Client.IdentifyUnits(ctx, locator.Query{
			Layers:  layer,
			Nearest: specializedLayerNearest,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "scraper: specialized layer %s", layer)
		}
		added := set.Add(units...)
		log.Debug("specialized layer scraped",
			zap.String("specialized_layer", layer),
			zap.Int("added", added),
			zap.Int("duplicates", len(units)-added),
		)
	}

	for _, region := range s.Catalog.Regions {
		regionStart := time.Now()
		before := len(set)

		cells := region.Cells()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Concurrency)
		for _, cell := range cells {
			g.Go(func() error {
				units, err := s.Client.IdentifyUnits(gctx, locator.Query{
					Layers:  "WARD",
					Lat:     cell.Lat,
					Lon:     cell.Lon,
					Nearest: cell.Nearest,
				})
				if err != nil {
					return eris.Wrapf(err, "scraper: region %s cell %.3f,%.3f", region.Name, cell.Lon, cell.Lat)
				}
				mu.Lock()
				set.Add(units...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		log.Info("finished region",
			zap.String("region", region.Name),
			zap.Int("cells", len(cells)),
			zap.Int("added", len(set)-before),
			zap.Duration("elapsed", time.Since(regionStart)),
		)
	}

	log.Info("finished ward scrape",
		zap.Int("total_units", len(set)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return set, nil
}

// Stakes scrapes stakes and districts from the catalog's continental
// anchor coordinates.
func (s *Units) Stakes(ctx context.Context) (model.UnitSet, error) {
	log := zap.L().With(zap.String("layer", "stakes"))
	start := time.Now()

	set := model.UnitSet{}
	for _, coord := range s.Catalog.StakeCoordinates {
		anchorStart := time.Now()
		units, err := s.Client.IdentifyUnits(ctx, locator.Query{
			Layers:  "STAKE",
			Lat:     coord.Lat,
			Lon:     coord.Lon,
			Nearest: coord.Nearest,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "scraper: stakes at %s", coord.City)
		}
		added := set.Add(units...)
		log.Info("finished stake anchor",
			zap.String("city", coord.City),
			zap.Int("added", added),
			zap.Int("duplicates", len(units)-added),
			zap.Duration("elapsed", time.Since(anchorStart)),
		)
	}

	log.Info("finished stake scrape",
		zap.Int("total_units", len(set)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return set, nil
}
