package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chambersfam/locator-cli/internal/diff"
	"github.com/chambersfam/locator-cli/internal/grid"
	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/internal/scraper"
	"github.com/chambersfam/locator-cli/internal/snapshot"
	"github.com/chambersfam/locator-cli/internal/summary"
)

var scrapeUnitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Scrape unit layers and track daily changes",
	Long: `Scrape the ward and stake layers over the region grid, write dated
snapshots, diff against yesterday's snapshot into daily added/removed
files, and upsert the day's totals into the summary store.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("scrape"); err != nil {
			return err
		}
		if err := cfg.Validate("summary"); err != nil {
			return err
		}

		layers, _ := cmd.Flags().GetString("layers")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = cfg.Scrape.Concurrency
		}
		doWards := layers == "all" || layers == "wards"
		doStakes := layers == "all" || layers == "stakes"
		if !doWards && !doStakes {
			return eris.Errorf("unknown --layers value %q (want wards, stakes, or all)", layers)
		}

		log := zap.L().With(zap.String("command", "scrape.units"))

		catalog, err := grid.Load()
		if err != nil {
			return eris.Wrap(err, "scrape units")
		}
		units := scraper.NewUnits(newLocatorClient(), catalog, concurrency)
		store := snapshot.New(cfg.Data.Dir)

		sumStore, err := openSummaryStore(ctx)
		if err != nil {
			return err
		}
		defer sumStore.Close() //nolint:errcheck

		now := time.Now().UTC()
		row, err := dayRow(ctx, sumStore, now)
		if err != nil {
			return err
		}

		if doWards {
			latest, err := units.Wards(ctx)
			if err != nil {
				return eris.Wrap(err, "scrape units: wards")
			}
			if err := finishLayer(ctx, store, sumStore, diff.KindWard, latest, now, row); err != nil {
				return err
			}
		}
		if doStakes {
			latest, err := units.Stakes(ctx)
			if err != nil {
				return eris.Wrap(err, "scrape units: stakes")
			}
			if err := finishLayer(ctx, store, sumStore, diff.KindStake, latest, now, row); err != nil {
				return err
			}
		}

		if err := sumStore.UpsertDay(ctx, *row); err != nil {
			return eris.Wrap(err, "scrape units: upsert summary")
		}

		log.Info("unit scrape complete", zap.String("day", row.Day))
		return nil
	},
}

// dayRow loads today's summary row, or starts a fresh one, so a scrape
// of a single layer keeps the other layer's counts.
func dayRow(ctx context.Context, store summary.Store, now time.Time) (*summary.Row, error) {
	day := now.Format(summary.DayLayout)
	row, err := store.GetDay(ctx, day)
	if err != nil {
		return nil, eris.Wrap(err, "scrape units: load summary row")
	}
	if row == nil {
		row = &summary.Row{Day: day}
	}
	return row, nil
}

// finishLayer writes the dated snapshot and diff files for one layer
// and folds its totals into the day's summary row.
func finishLayer(
	ctx context.Context,
	store *snapshot.Store,
	sumStore summary.Store,
	kind diff.Kind,
	latest model.UnitSet,
	now time.Time,
	row *summary.Row,
) error {
	majorPrefix, minorPrefix := kind.FilePrefixes()
	log := zap.L().With(zap.String("layer", majorPrefix))

	old, err := store.LoadUnits(majorPrefix, now.AddDate(0, 0, -1))
	if err != nil {
		return eris.Wrapf(err, "load yesterday's %s snapshot", majorPrefix)
	}

	d := diff.Units(old, latest, kind)
	for name, units := range map[string][]model.Unit{
		majorPrefix + "_added":   d.MajorAdded,
		majorPrefix + "_removed": d.MajorRemoved,
		minorPrefix + "_added":   d.MinorAdded,
		minorPrefix + "_removed": d.MinorRemoved,
	} {
		if err := store.WriteDailyFile(now, name, units); err != nil {
			return eris.Wrapf(err, "write daily %s file", name)
		}
	}

	if err := store.WriteUnits(majorPrefix, now, latest.Slice(), now); err != nil {
		return eris.Wrapf(err, "write %s snapshot", majorPrefix)
	}

	major, minor, unknown := diff.Count(latest, kind)
	if len(unknown) > 0 {
		log.Warn("units with unknown organization type", zap.Int("count", len(unknown)))
	}
	oldMajor, oldMinor, _ := diff.Count(old, kind)

	switch kind {
	case diff.KindStake:
		row.TotalStakes, row.TotalDistricts = major, minor
		row.NetStakes, row.NetDistricts = major-oldMajor, minor-oldMinor
	default:
		row.TotalWards, row.TotalBranches = major, minor
		row.NetWards, row.NetBranches = major-oldMajor, minor-oldMinor
	}

	log.Info("layer snapshot written",
		zap.Int("total", len(latest)),
		zap.Int(majorPrefix, major),
		zap.Int(minorPrefix, minor),
		zap.Int("added", len(d.MajorAdded)+len(d.MinorAdded)),
		zap.Int("removed", len(d.MajorRemoved)+len(d.MinorRemoved)),
	)

	if _, err := sumStore.RecordRun(ctx, majorPrefix, len(latest)); err != nil {
		log.Warn("could not record scrape run", zap.Error(err))
	}
	return nil
}

func init() {
	scrapeUnitsCmd.Flags().String("layers", "all", "layers to scrape: wards, stakes, or all")
	scrapeUnitsCmd.Flags().Int("concurrency", 0, "identify calls in flight per region (default from config)")
	scrapeCmd.AddCommand(scrapeUnitsCmd)
}
