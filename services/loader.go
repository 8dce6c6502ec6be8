package services

import (
	"context"
	"errors"

	"space-missions/models"
	"space-missions/storage"
	"space-missions/utils"
)

// Loader reads a source, validates its schema and produces a MissionTable.
type Loader struct {
	source  storage.MissionSource
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewLoader creates a Loader over source.
func NewLoader(source storage.MissionSource, logger *utils.Logger) *Loader {
	return &Loader{
		source:  source,
		cleaner: NewCleaner(logger),
		logger:  logger,
	}
}

// Load reads the full dataset. Any failure is returned as *DataLoadError.
func (l *Loader) Load(ctx context.Context) (*models.MissionTable, error) {
	name := l.source.Name()
	l.logger.Info("[loader] Loading missions from %s", name)

	raw, err := l.source.Load(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: name, Err: err}
	}

	if missing := MissingColumns(raw.Columns); len(missing) > 0 {
		return nil, &DataLoadError{Source: name, Missing: missing, Err: ErrMissingColumn}
	}

	table := l.cleaner.Clean(raw)
	l.logger.Info("[loader] Loaded %d missions (%d columns) from %s",
		table.Len(), len(table.Columns), name)
	return table, nil
}

// MissingColumns returns the required columns absent from header, in
// canonical order. Names are matched case-sensitively.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// IsLoadError reports whether err came from a failed dataset load.
func IsLoadError(err error) bool {
	var dle *DataLoadError
	return errors.As(err, &dle)
}
