package collector

import (
	"context"
	"errors"

	"PriceGrab/internal/model"
)

// Error kinds surfaced by fetchers. Callers distinguish them with errors.Is.
var (
	// ErrNetwork covers unreachable hosts, timeouts and non-200 responses.
	ErrNetwork = errors.New("network error")
	// ErrParse covers an unexpected page or payload shape.
	ErrParse = errors.New("parse error")
)

// Fetcher retrieves the historical price table for one symbol.
// Implementations return rows in ascending date order.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string) ([]model.PriceRow, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Rows []model.PriceRow
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, _ string) ([]model.PriceRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}
