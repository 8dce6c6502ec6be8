package storage

import (
	"context"
	"errors"

	"space-missions/models"
)

// ErrSourceNotFound is wrapped by sources when the dataset does not exist
// (missing file, missing table).
var ErrSourceNotFound = errors.New("mission source not found")

// MissionSource is the interface any dataset backend must satisfy. Load
// returns the raw header and rows; validation happens in the loader.
type MissionSource interface {
	Name() string
	Load(ctx context.Context) (*models.RawTable, error)
}

// MissionExporter writes a table's selected columns to some destination.
type MissionExporter interface {
	Export(table *models.MissionTable, columns []string) error
	Close() error
}
