package services

import (
	"errors"
	"fmt"
	"strings"

	"space-missions/storage"
)

var (
	// ErrSourceNotFound is reported when the dataset file or table does not exist.
	ErrSourceNotFound = storage.ErrSourceNotFound
	// ErrMissingColumn is reported when the header lacks a required field.
	ErrMissingColumn = errors.New("required column missing")
	// ErrUnknownColumn is reported when an export asks for a column the table lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoData is reported when a chart is requested for an empty series.
	ErrNoData = errors.New("no data to render")
)

// DataLoadError is the single error type the loader returns. No partial
// table accompanies it.
type DataLoadError struct {
	Source  string
	Missing []string
	Err     error
}

func (e *DataLoadError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("loader: %s: %v: %s", e.Source, e.Err, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("loader: %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
