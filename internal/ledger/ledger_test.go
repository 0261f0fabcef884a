package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PriceGrab/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func row(date string, close float64, volume int64) model.PriceRow {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	c := decimal.NewFromFloat(close)
	return model.PriceRow{
		Date:     d,
		Open:     c,
		High:     c,
		Low:      c,
		Close:    c,
		AdjClose: c,
		Volume:   volume,
	}
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "prices.xlsx"), "Prices")
}

func TestLastDate_MissingFile(t *testing.T) {
	l := newTestLedger(t)
	d, err := l.LastDate()
	if err != nil {
		t.Fatalf("last date: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero time for missing file, got %v", d)
	}
}

func TestAppend_CreatesWorkbookWithHeader(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Append([]model.PriceRow{row("2024-01-10", 5.15, 980100)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(l.Sheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 data row, got %d rows", len(rows))
	}
	want := []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}
	for i, title := range want {
		if rows[0][i] != title {
			t.Errorf("header column %d: expected %q, got %q", i, title, rows[0][i])
		}
	}
}

func TestAppend_ThenLastDate(t *testing.T) {
	l := newTestLedger(t)
	err := l.Append([]model.PriceRow{
		row("2024-01-09", 5.10, 900000),
		row("2024-01-10", 5.15, 980100),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	d, err := l.LastDate()
	if err != nil {
		t.Fatalf("last date: %v", err)
	}
	if got := d.Format("2006-01-02"); got != "2024-01-10" {
		t.Errorf("expected 2024-01-10, got %s", got)
	}
}

func TestAppend_SecondBatchKeepsAscendingOrder(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Append([]model.PriceRow{row("2024-01-09", 5.10, 900000)}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := l.Append([]model.PriceRow{
		row("2024-01-10", 5.15, 980100),
		row("2024-01-11", 5.22, 1204300),
	}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(l.Sheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 data rows, got %d", len(rows))
	}

	var prev time.Time
	for i := 1; i < len(rows); i++ {
		d, err := parseSheetDate(rows[i][0])
		if err != nil {
			t.Fatalf("row %d: %v", i+1, err)
		}
		if !prev.Before(d) {
			t.Errorf("row %d not ascending: %v after %v", i+1, d, prev)
		}
		prev = d
	}
}

func TestAppend_ZeroRowsIsNoOp(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Append(nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := os.Stat(l.Path); !os.IsNotExist(err) {
		t.Error("zero-row append must not create the workbook")
	}
}

func TestAppend_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, "missing", "nested", "prices.xlsx"), "Prices")
	err := l.Append([]model.PriceRow{row("2024-01-10", 5.15, 980100)})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected i/o error, got %v", err)
	}
}

func TestLastDate_SheetMissing(t *testing.T) {
	l := newTestLedger(t)

	f := excelize.NewFile()
	if err := f.SaveAs(l.Path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	f.Close()

	d, err := l.LastDate()
	if err != nil {
		t.Fatalf("last date: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero time for workbook without the sheet, got %v", d)
	}
}
