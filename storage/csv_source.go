package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"space-missions/models"
)

// CSVSource reads the mission table from a CSV file with a header row.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source for the file at path. The file is not
// opened until Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

// Load reads the whole file. A missing file wraps ErrSourceNotFound.
func (s *CSVSource) Load(ctx context.Context) (*models.RawTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("csv: open %q: %w: %w", s.Path, ErrSourceNotFound, err)
		}
		return nil, fmt.Errorf("csv: open %q: %w", s.Path, err)
	}
	defer f.Close()

	return ReadCSV(ctx, f, s.Name())
}

// ReadCSV parses CSV data from r. Rows shorter than the header are padded
// with empty fields and longer rows are truncated, so every row lines up
// with the column list.
func ReadCSV(ctx context.Context, r io.Reader, source string) (*models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: %s: empty file, no header row", source)
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	table := &models.RawTable{Source: source, Columns: header}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, alignRow(row, len(header)))
	}
	return table, nil
}

func alignRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
