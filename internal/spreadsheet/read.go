// Package spreadsheet converts spreadsheets to records and back. Every
// sheet starts with a header row; each following non-empty row becomes one
// record keyed by the header names.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"address-reconciler/internal/models"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ReadFile reads an xlsx or csv file. CSV rows get the file name (without
// extension) as sheet.
func ReadFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open %s: %w", path, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	default:
		return nil, fmt.Errorf("spreadsheet: %s: %w", ext, ErrUnsupportedFormat)
	}
}

// ReadXLSX reads every sheet of a workbook.
func ReadXLSX(r io.Reader) ([]models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open workbook: %w", err)
	}
	defer f.Close()

	var out []models.Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("spreadsheet: read sheet %q: %w", sheet, err)
		}
		out = append(out, toRecords(rows, sheet)...)
	}
	return out, nil
}

// ReadCSV reads a single comma separated table.
func ReadCSV(r io.Reader, sheet string) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read csv: %w", err)
	}
	return toRecords(rows, sheet), nil
}

func toRecords(rows [][]string, sheet string) []models.Record {
	var (
		header []string
		out    []models.Record
	)
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if header == nil {
			header = make([]string, len(row))
			for i, name := range row {
				header[i] = strings.TrimSpace(name)
			}
			continue
		}

		r := models.Record{}
		for i, v := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				r[header[i]] = v
			}
		}
		if sheet != "" && r[models.FieldSheet] == "" {
			r[models.FieldSheet] = sheet
		}
		out = append(out, r)
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
