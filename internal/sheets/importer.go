package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"asset-tracking-api/internal/models"
)

// ImportOptions defines the configuration for spreadsheet imports
type ImportOptions struct {
	Mapping   *Mapping // nil means DefaultMapping
	DryRun    bool
	MaxErrors int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary contains the import statistics
type ImportSummary struct {
	Sheet    string     `json:"sheet"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
	DryRun   bool       `json:"dry_run"`
}

// AssetCreator is the store operation the importer needs
type AssetCreator interface {
	CreateAsset(ctx context.Context, in models.AssetInput) (int64, error)
}

// ImportAssets reads one sheet of an .xlsx workbook and creates an asset per
// non-empty row. Rows are independent: a bad row is recorded and skipped.
// Dry runs validate without writing.
func ImportAssets(ctx context.Context, dst AssetCreator, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{DryRun: opts.DryRun}

	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 50
	}
	mapping := opts.Mapping
	if mapping == nil {
		var err error
		if mapping, err = DefaultMapping(); err != nil {
			return summary, err
		}
	}

	// xlsx needs random access, so read everything first
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	sheet, err := pickSheet(xlFile, mapping.Sheet)
	if err != nil {
		return summary, err
	}
	summary.Sheet = sheet.Name

	columns, err := mapHeader(sheet, mapping)
	if err != nil {
		return summary, err
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		values, err := readRow(sheet, rowIdx, columns)
		if err != nil {
			summary.addError(rowIdx, err)
		} else if len(values) == 0 {
			summary.Skipped++
			continue
		} else if err := importRow(ctx, dst, values, mapping.Defaults, opts.DryRun); err != nil {
			summary.addError(rowIdx, err)
		} else {
			summary.Inserted++
		}

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
		}
	}

	return summary, nil
}

func (s *ImportSummary) addError(rowIdx int, err error) {
	s.Errors++
	s.Samples = append(s.Samples, RowError{Row: rowIdx + 1, Message: err.Error()})
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, fmt.Errorf("sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// mapHeader returns asset field by column index for the first row
func mapHeader(sheet *xlsx.Sheet, mapping *Mapping) (map[int]string, error) {
	if sheet.MaxRow == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet.Name)
	}
	headerRow, err := sheet.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns := make(map[int]string)
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		cell := headerRow.GetCell(colIdx)
		if cell == nil {
			continue
		}
		if field := mapping.FieldForHeader(cell.String()); field != "" {
			columns[colIdx] = field
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has no recognised asset columns", sheet.Name)
	}
	return columns, nil
}

// readRow returns the non-empty mapped cell values of a row
func readRow(sheet *xlsx.Sheet, rowIdx int, columns map[int]string) (map[string]string, error) {
	row, err := sheet.Row(rowIdx)
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	values := make(map[string]string)
	for colIdx, field := range columns {
		cell := row.GetCell(colIdx)
		if cell == nil {
			continue
		}
		if v := strings.TrimSpace(cell.String()); v != "" {
			values[field] = v
		}
	}
	return values, nil
}

func importRow(ctx context.Context, dst AssetCreator, values, defaults map[string]string, dryRun bool) error {
	get := func(field string) string {
		if v, ok := values[field]; ok {
			return v
		}
		return defaults[field]
	}

	in := models.AssetInput{
		Name:      get("name"),
		Model:     get("model"),
		Condition: get("condition"),
		Status:    get("status"),
		Location:  get("location"),
	}
	if v := get("last_activity"); v != "" {
		in.LastActivity = &v
	}

	if err := models.Validate(in); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	_, err := dst.CreateAsset(ctx, in)
	return err
}
