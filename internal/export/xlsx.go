// Package export writes filtered results to spreadsheet files.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"quotedesk/internal/filter"
	"quotedesk/internal/logging"
)

var exportLog = logging.ForComponent(logging.CompExport)

const defaultSheet = "Sheet1"

// Header is the first row of every export
var Header = []interface{}{"id", "title", "description", "category", "price", "ref"}

// WriteXLSX writes one row per result to path. label maps a category to
// its display text; nil keeps the raw category.
func WriteXLSX(path, sheet string, rs filter.ResultSet, label func(string) string) error {
	if label == nil {
		label = func(s string) string { return s }
	}
	if sheet == "" {
		sheet = defaultSheet
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: mkdir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("export: sheet name: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("export: stream writer: %w", err)
	}
	if err := sw.SetRow("A1", Header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i, it := range rs.Items {
		r := it.Record
		row := []interface{}{r.ID, r.Title, r.Description, label(r.Category), r.Price, r.Ref}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save: %w", err)
	}
	exportLog.Info("xlsx_written", slog.String("path", path), slog.Int("rows", rs.Len()))
	return nil
}
