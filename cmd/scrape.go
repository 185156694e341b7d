package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/internal/snapshot"
	"github.com/chambersfam/locator-cli/internal/stats"
	"github.com/chambersfam/locator-cli/pkg/locator"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape locator datasets into snapshots",
}

var scrapeBuildingsCmd = &cobra.Command{
	Use:   "buildings",
	Short: "Scrape all meetinghouse buildings",
	Long: `Scrape every meetinghouse building with its associated wards from the
locator identify endpoint and overwrite the buildings snapshot.

By default one identify call with a large nearest cap fetches the whole
dataset; --paged walks pages until the service returns an empty one.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "scrape.buildings"))
		client := newLocatorClient()

		q := locator.Query{
			Layers:     "MEETINGHOUSE",
			Associated: "WARDS",
			Nearest:    cfg.Locator.Nearest,
			PageSize:   cfg.Locator.PageSize,
		}

		paged, _ := cmd.Flags().GetBool("paged")
		var (
			buildings []model.Building
			err       error
		)
		log.Info("fetching buildings", zap.Bool("paged", paged), zap.Int("nearest", q.Nearest))
		if paged {
			buildings, err = client.FetchAllBuildings(ctx, q)
		} else {
			buildings, err = client.IdentifyBuildings(ctx, q)
		}
		if err != nil {
			return eris.Wrap(err, "scrape buildings")
		}

		store := snapshot.New(cfg.Data.Dir)
		if err := store.WriteBuildings(buildings); err != nil {
			return eris.Wrap(err, "scrape buildings: write snapshot")
		}

		log.Info("buildings snapshot written",
			zap.String("path", store.BuildingsPath()),
			zap.Int("buildings", len(buildings)),
			zap.Int("units", stats.TotalUnits(buildings)),
			zap.Int("unit_types", len(stats.UnitTypeCounts(buildings))),
			zap.Int("no_address", stats.NoAddressCount(buildings)),
		)

		recordScrapeRun(ctx, "buildings", len(buildings))
		return nil
	},
}

// recordScrapeRun stores the run in the summary store. Snapshot data is
// already on disk at this point, so a store failure only logs.
func recordScrapeRun(ctx context.Context, layer string, records int) {
	store, err := openSummaryStore(ctx)
	if err != nil {
		zap.L().Warn("could not open summary store to record run", zap.Error(err))
		return
	}
	defer store.Close() //nolint:errcheck

	if _, err := store.RecordRun(ctx, layer, records); err != nil {
		zap.L().Warn("could not record scrape run", zap.Error(err))
	}
}

func init() {
	scrapeBuildingsCmd.Flags().Bool("paged", false, "page through results instead of one large identify call")
	scrapeCmd.AddCommand(scrapeBuildingsCmd)
	rootCmd.AddCommand(scrapeCmd)
}
