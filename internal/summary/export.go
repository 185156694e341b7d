package summary

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var exportHeader = []string{
	"day",
	"total_stakes", "total_districts", "total_wards", "total_branches",
	"net_stakes", "net_districts", "net_wards", "net_branches",
}

// WriteCSV writes the summary rows as CSV with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return eris.Wrap(err, "summary: write csv header")
	}
	for _, r := range rows {
		record := []string{
			r.Day,
			strconv.Itoa(r.TotalStakes), strconv.Itoa(r.TotalDistricts),
			strconv.Itoa(r.TotalWards), strconv.Itoa(r.TotalBranches),
			strconv.Itoa(r.NetStakes), strconv.Itoa(r.NetDistricts),
			strconv.Itoa(r.NetWards), strconv.Itoa(r.NetBranches),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "summary: write csv row %s", r.Day)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "summary: flush csv")
}

// WriteXLSX writes the summary rows as a single-sheet XLSX workbook.
func WriteXLSX(path string, rows []Row) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("daily_summary")
	if err != nil {
		return eris.Wrap(err, "summary: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().Value = h
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Day
		for _, n := range []int{
			r.TotalStakes, r.TotalDistricts, r.TotalWards, r.TotalBranches,
			r.NetStakes, r.NetDistricts, r.NetWards, r.NetBranches,
		} {
			row.AddCell().SetInt(n)
		}
	}

	return eris.Wrapf(file.Save(path), "summary: save xlsx %s", path)
}
