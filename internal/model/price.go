package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRow is one trading day's entry from the historical prices table.
// Rows are immutable once parsed and uniquely identified by date.
type PriceRow struct {
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int64
}

// Day returns the row's date truncated to a calendar day in UTC.
func (r PriceRow) Day() time.Time {
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
}
