package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"space-missions/models"
)

// dateLayout is the export format for launch dates.
const dateLayout = "2006-01-02"

// CSVWriter writes a mission table in the same tabular format as the source.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter wraps w. Close does not close w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

// CreateCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func CreateCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{closer: f, writer: csv.NewWriter(f)}, nil
}

// Export writes the header followed by one row per mission. An empty column
// list exports the table's own columns.
func (c *CSVWriter) Export(table *models.MissionTable, columns []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(columns) == 0 {
		columns = table.Columns
	}

	if err := c.writer.Write(columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, m := range table.Missions {
		for i, col := range columns {
			row[i] = FieldValue(m, col)
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if this writer owns one.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}

// FieldValue renders one column of a mission as export text. Dates use
// YYYY-MM-DD and null values render empty.
func FieldValue(m *models.Mission, column string) string {
	switch column {
	case models.ColCompany:
		return m.Company
	case models.ColLocation:
		return m.Location
	case models.ColDate:
		if m.LaunchDate == nil {
			return ""
		}
		return m.LaunchDate.Format(dateLayout)
	case models.ColTime:
		return m.LaunchTime
	case models.ColRocket:
		return m.Rocket
	case models.ColMission:
		return m.Mission
	case models.ColRocketStatus:
		return m.RocketStatus
	case models.ColPrice:
		if m.Price == nil {
			return ""
		}
		return strconv.FormatFloat(*m.Price, 'f', -1, 64)
	case models.ColMissionStatus:
		return m.MissionStatus
	default:
		return m.Extra[column]
	}
}
