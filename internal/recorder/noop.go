package recorder

import "PriceGrab/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRows(_ string, _ []model.PriceRow) error { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }
