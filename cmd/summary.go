package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/chambersfam/locator-cli/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Inspect and export the daily unit summary",
}

var summaryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the daily summary table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("summary"); err != nil {
			return err
		}
		store, err := openSummaryStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		rows, err := store.ListDays(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "summary show")
		}

		p := message.NewPrinter(language.English)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		p.Fprintln(tw, "DAY\tSTAKES\tDISTRICTS\tWARDS\tBRANCHES\tNET S\tNET D\tNET W\tNET B")
		for _, r := range rows {
			p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%+d\t%+d\t%+d\t%+d\n",
				r.Day, r.TotalStakes, r.TotalDistricts, r.TotalWards, r.TotalBranches,
				r.NetStakes, r.NetDistricts, r.NetWards, r.NetBranches)
		}
		return tw.Flush()
	},
}

var summaryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the daily summary as CSV or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("summary"); err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			return eris.New("summary export: --out is required")
		}

		store, err := openSummaryStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		rows, err := store.ListDays(ctx, 0)
		if err != nil {
			return eris.Wrap(err, "summary export")
		}

		switch filepath.Ext(outPath) {
		case ".xlsx":
			return summary.WriteXLSX(outPath, rows)
		case ".csv":
			f, err := os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "summary export: create %s", outPath)
			}
			defer f.Close() //nolint:errcheck
			return summary.WriteCSV(f, rows)
		default:
			return eris.Errorf("summary export: unsupported extension %q (want .csv or .xlsx)", filepath.Ext(outPath))
		}
	},
}

func init() {
	summaryShowCmd.Flags().Int("limit", 0, "show only the newest N days")
	summaryExportCmd.Flags().String("out", "", "output file (.csv or .xlsx)")
	summaryCmd.AddCommand(summaryShowCmd)
	summaryCmd.AddCommand(summaryExportCmd)
	rootCmd.AddCommand(summaryCmd)
}
