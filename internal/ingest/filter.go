package ingest

import (
	"time"

	"PriceGrab/internal/model"
)

// FilterNovel returns the rows dated strictly after lastDate, preserving
// relative order. A zero lastDate (new or empty spreadsheet) keeps every row.
// An empty result means the market published nothing new, which is success.
func FilterNovel(rows []model.PriceRow, lastDate time.Time) []model.PriceRow {
	if lastDate.IsZero() {
		return rows
	}
	cutoff := day(lastDate)
	var novel []model.PriceRow
	for _, r := range rows {
		if r.Day().After(cutoff) {
			novel = append(novel, r)
		}
	}
	return novel
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
