package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"litcoder/internal/schema"
)

const sheetName = "Coding"

// ExportXLSX writes all records as an XLSX workbook with the same header and
// row order as the CSV export. Returns the written path.
func (s *Service) ExportXLSX(records []schema.Record, filename string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	if filename == "" {
		filename = DefaultFilename("xlsx")
	}
	if err := os.MkdirAll(s.outputFolder, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}
	path := filepath.Join(s.outputFolder, filename)

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return "", err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range schema.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}
	for rowIdx, rec := range records {
		for colIdx, v := range rec.Row() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	// Title and decision columns are the ones people scan first.
	_ = f.SetColWidth(sheetName, "A", "A", 48)
	_ = f.SetColWidth(sheetName, "B", "C", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	s.log.Info("export.xlsx.ok", "path", path, "rows", len(records))
	return path, nil
}
