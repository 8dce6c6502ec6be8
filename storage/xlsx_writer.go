package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"space-missions/models"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Missions"

// XLSXWriter writes a mission table into a single-sheet workbook.
type XLSXWriter struct {
	path string
	out  io.Writer
}

// NewXLSXWriter writes the workbook to w on Export.
func NewXLSXWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{out: w}
}

// CreateXLSXWriter writes the workbook to path on Export, creating parent
// directories as needed.
func CreateXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path}, nil
}

// Export builds the workbook in memory and writes it out. Dates are written
// as YYYY-MM-DD text, matching the CSV export.
func (x *XLSXWriter) Export(table *models.MissionTable, columns []string) error {
	if len(columns) == 0 {
		columns = table.Columns
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	for i, header := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
	}

	for r, m := range table.Missions {
		for i, col := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return fmt.Errorf("xlsx: cell: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, FieldValue(m, col)); err != nil {
				return fmt.Errorf("xlsx: write row %d: %w", r+2, err)
			}
		}
	}

	if x.path != "" {
		if err := f.SaveAs(x.path); err != nil {
			return fmt.Errorf("xlsx: save %q: %w", x.path, err)
		}
		return nil
	}
	if err := f.Write(x.out); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// Close is a no-op; the workbook is flushed by Export.
func (x *XLSXWriter) Close() error { return nil }
