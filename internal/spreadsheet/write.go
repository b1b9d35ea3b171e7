package spreadsheet

import (
	"fmt"
	"io"
	"sort"

	"address-reconciler/internal/models"

	"github.com/xuri/excelize/v2"
)

// Columns returns the union of field names, id first and the rest sorted.
func Columns(records []models.Record) []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range records {
		for k := range r {
			if !seen[k] && k != models.FieldID {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return append([]string{models.FieldID}, names...)
}

// WriteXLSX writes records to a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	columns := Columns(records)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}

	for i, r := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("spreadsheet: row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("spreadsheet: write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}
