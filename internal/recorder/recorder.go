package recorder

import "PriceGrab/internal/model"

// Recorder mirrors appended rows into a queryable store for later analysis.
type Recorder interface {
	RecordRows(symbol string, rows []model.PriceRow) error
	Close() error
}
