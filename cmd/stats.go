package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/internal/snapshot"
	"github.com/chambersfam/locator-cli/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute statistics over a stored snapshot",
	Long: `Compute a statistic over a stored snapshot.

Building metrics (read the buildings snapshot):
  totals         building, unit, and no-address totals
  unit-buckets   buildings grouped by number-of-units bucket
  unit-types     unit counts grouped by type and subtype string
  no-address     count of buildings lacking address data
  countries      buildings and units per country
  sizes          average interior size per country
  meeting-at     buildings with a unit meeting at --time in --city

Unit metrics (read the dated snapshot selected by --units and --day):
  unit-countries units per country
  unit-years     units by creation year and organization type`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		metric, _ := cmd.Flags().GetString("metric")
		out := cmd.OutOrStdout()
		p := message.NewPrinter(language.English)

		switch metric {
		case "unit-countries":
			set, err := loadUnitsSnapshot(cmd)
			if err != nil {
				return err
			}
			counts := stats.UnitsByCountry(set)
			p.Fprintf(out, "Units: %d across %d countries\n", len(set), len(counts))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, country := range stats.SortedKeys(counts) {
				p.Fprintf(tw, "%s\t%d\n", country, counts[country])
			}
			return tw.Flush()

		case "unit-years":
			set, err := loadUnitsSnapshot(cmd)
			if err != nil {
				return err
			}
			years := stats.CreatedByYear(set)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			p.Fprintln(tw, "YEAR\tORGANIZATION\tUNITS")
			for _, year := range stats.SortedKeys(years) {
				for _, org := range stats.SortedKeys(years[year]) {
					p.Fprintf(tw, "%s\t%s\t%d\n", year, org, years[year][org])
				}
			}
			return tw.Flush()
		}

		path, _ := cmd.Flags().GetString("snapshot")
		if path == "" {
			path = snapshot.New(cfg.Data.Dir).BuildingsPath()
		}
		buildings, err := snapshot.LoadBuildings(path)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		switch metric {
		case "totals":
			p.Fprintf(out, "Total buildings: %d\n", len(buildings))
			p.Fprintf(out, "Total units: %d\n", stats.TotalUnits(buildings))
			p.Fprintf(out, "Buildings with no units: %d\n", stats.UnitsPerBuilding(buildings)[0])
			p.Fprintf(out, "Buildings with no address: %d\n", stats.NoAddressCount(buildings))

		case "unit-buckets":
			bucketCap, _ := cmd.Flags().GetInt("bucket-cap")
			buckets := stats.SummarizeBuckets(stats.UnitsPerBuilding(buildings), bucketCap)
			p.Fprintf(out, "Building count by units (total %d):\n", len(buildings))
			return printJSON(out, buckets)

		case "unit-types":
			types := stats.UnitTypeCounts(buildings)
			p.Fprintf(out, "Total unit types: %d\n", len(types))
			if err := printJSON(out, types); err != nil {
				return err
			}
			fmt.Fprintln(out, "By subtype:")
			return printJSON(out, stats.UnitSubtypeCounts(buildings))

		case "no-address":
			p.Fprintf(out, "Buildings with no address: %d of %d\n",
				stats.NoAddressCount(buildings), len(buildings))

		case "countries":
			report := stats.ByCountry(buildings)
			p.Fprintf(out, "Countries: %d\n", len(report.Countries))
			p.Fprintf(out, "Buildings with no address: %d (%d with units)\n",
				report.NoAddress, report.NoAddressButUnits)
			return printJSON(out, report)

		case "sizes":
			return printJSON(out, stats.SizesByCountry(buildings))

		case "meeting-at":
			city, _ := cmd.Flags().GetString("city")
			at, _ := cmd.Flags().GetString("time")
			if city == "" || at == "" {
				return eris.New("stats: --city and --time are required for meeting-at")
			}
			matches := stats.MeetingAt(buildings, city, at)
			p.Fprintf(out, "Found %d buildings with units meeting at %s in %s\n", len(matches), at, city)
			return printJSON(out, buildingNames(matches))

		default:
			return eris.Errorf("stats: unknown metric %q", metric)
		}
		return nil
	},
}

// loadUnitsSnapshot reads the dated unit snapshot selected by the
// --units and --day flags.
func loadUnitsSnapshot(cmd *cobra.Command) (model.UnitSet, error) {
	prefix, _ := cmd.Flags().GetString("units")
	if prefix != "wards" && prefix != "stakes" {
		return nil, eris.Errorf("stats: unknown --units value %q (want wards or stakes)", prefix)
	}

	day := time.Now()
	if dayFlag, _ := cmd.Flags().GetString("day"); dayFlag != "" {
		parsed, err := time.Parse(snapshot.DayFormat, dayFlag)
		if err != nil {
			return nil, eris.Wrapf(err, "stats: parse --day %q", dayFlag)
		}
		day = parsed
	}

	set, err := snapshot.New(cfg.Data.Dir).LoadUnits(prefix, day)
	if err != nil {
		return nil, eris.Wrap(err, "stats")
	}
	if len(set) == 0 {
		return nil, eris.Errorf("stats: no %s snapshot for %s under %s",
			prefix, day.Format(snapshot.DayFormat), cfg.Data.Dir)
	}
	return set, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "stats: marshal output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func buildingNames(buildings []model.Building) []string {
	names := make([]string, 0, len(buildings))
	for i := range buildings {
		name := buildings[i].NameDisplay
		if name == "" {
			name = buildings[i].Name
		}
		names = append(names, name)
	}
	return names
}

func init() {
	statsCmd.Flags().String("snapshot", "", "path to buildings snapshot (default <data.dir>/buildings.json)")
	statsCmd.Flags().String("metric", "totals", "metric to compute")
	statsCmd.Flags().Int("bucket-cap", stats.DefaultBucketCap, "collapse unit counts at this value into an N+ bucket")
	statsCmd.Flags().String("city", "", "city filter for meeting-at")
	statsCmd.Flags().String("time", "", "meeting time for meeting-at, e.g. \"Su 11:00\"")
	statsCmd.Flags().String("units", "wards", "unit snapshot for unit metrics: wards or stakes")
	statsCmd.Flags().String("day", "", "unit snapshot day as YYYY_MM_DD (default today)")
	rootCmd.AddCommand(statsCmd)
}
