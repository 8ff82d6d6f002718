package sheets

import (
	"fmt"
	"io"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tealeg/xlsx/v3"

	"asset-tracking-api/internal/models"
)

// ContentType is the MIME type of .xlsx downloads
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	assetHeader = []string{"ID", "Name", "Model", "Condition", "Status", "Location", "Last Activity"}
	entryHeader = []string{"Asset ID", "Date", "Time", "Type", "Location", "Remarks", "Name", "Model", "Current Status"}
)

// FileName builds a timestamped download name such as
// asset-tracking-2024-01-02-15-04.xlsx
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, now.Format("2006-01-02-15-04"))
}

// ExportAssets writes one row per asset record
func ExportAssets(w io.Writer, assets []models.Asset) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Assets")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addRow(sheet, assetHeader...)

	for _, a := range assets {
		row := sheet.AddRow()
		row.AddCell().SetInt64(a.ID)
		for _, v := range []string{a.Name, a.Model, a.Condition, a.Status, a.Location, deref(a.LastActivity)} {
			row.AddCell().SetString(v)
		}
	}

	return file.Write(w)
}

// ExportEntries writes one row per entry, grouped by asset, with the
// asset's current status derived from its last entry
func ExportEntries(w io.Writer, groups []models.AssetGroup) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Asset Tracking")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addRow(sheet, entryHeader...)

	for _, g := range groups {
		status := g.CurrentStatus()
		for _, e := range g.Entries {
			date, clock := splitTimestamp(e.Timestamp)
			addRow(sheet,
				g.ID, date, clock,
				capitalize(e.Type), capitalize(e.Location),
				deref(e.Remarks), deref(e.Name), deref(e.Model),
				status,
			)
		}
	}

	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// splitTimestamp returns date and time columns; unparsable input is kept
// verbatim in the date column
func splitTimestamp(ts string) (string, string) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts, ""
	}
	return t.Format("2006-01-02"), t.Format("15:04:05")
}

// capitalize upper-cases the first rune
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
