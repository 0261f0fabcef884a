package ledger

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"PriceGrab/internal/model"

	"github.com/xuri/excelize/v2"
)

// ErrIO marks workbook open/write failures (missing permissions, file held
// open by another program, and so on).
var ErrIO = errors.New("spreadsheet i/o error")

var header = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

const (
	defaultSheet = "Prices"

	dateNumFmt   = "mm/dd/yyyy"
	priceNumFmt  = "0.00"
	volumeNumFmt = "#,##0"

	fontName = "Arial"
	fontSize = 11
)

// Ledger appends price rows to one sheet of an xlsx workbook. The sheet keeps
// one header row plus one row per trading day, ascending by date.
type Ledger struct {
	Path  string
	Sheet string
}

// New creates a ledger over the workbook at path.
func New(path, sheet string) *Ledger {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &Ledger{Path: path, Sheet: sheet}
}

// layouts accepted when reading the date column back from the sheet
var sheetDateLayouts = []string{"01/02/2006", "1/2/2006", "01/02/06", "1/2/06", "2006-01-02"}

// LastDate returns the date of the last data row, or the zero time when the
// workbook or the sheet does not exist yet.
func (l *Ledger) LastDate() (time.Time, error) {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: open %s: %v", ErrIO, l.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(l.Sheet)
	if err != nil {
		// valid workbook without our sheet: nothing stored yet
		return time.Time{}, nil
	}
	for i := len(rows) - 1; i >= 1; i-- {
		if len(rows[i]) == 0 || rows[i][0] == "" {
			continue
		}
		d, err := parseSheetDate(rows[i][0])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: row %d: bad date %q", ErrIO, i+1, rows[i][0])
		}
		return d, nil
	}
	return time.Time{}, nil
}

func parseSheetDate(s string) (time.Time, error) {
	for _, layout := range sheetDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Append appends rows after the last used row and saves once, at the end.
// Appending zero rows is a no-op that leaves the file untouched.
func (l *Ledger) Append(rows []model.PriceRow) error {
	if len(rows) == 0 {
		return nil
	}

	f, created, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	start, err := l.nextRow(f)
	if err != nil {
		return err
	}
	styles, err := newRowStyles(f)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if err := l.writeRow(f, styles, start+i, r); err != nil {
			return err
		}
	}

	if created {
		err = f.SaveAs(l.Path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrIO, l.Path, err)
	}
	log.Printf("[INFO] appended %d row(s) to %s", len(rows), l.Path)
	return nil
}

// open loads the existing workbook, or builds a fresh one with a header row
// when the file does not exist. The boolean reports whether it was created.
func (l *Ledger) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(l.Path)
	if err == nil {
		idx, err := f.GetSheetIndex(l.Sheet)
		if err != nil {
			f.Close()
			return nil, false, fmt.Errorf("%w: sheet %s: %v", ErrIO, l.Sheet, err)
		}
		if idx < 0 {
			if _, err := f.NewSheet(l.Sheet); err != nil {
				f.Close()
				return nil, false, fmt.Errorf("%w: create sheet %s: %v", ErrIO, l.Sheet, err)
			}
			if err := l.writeHeader(f); err != nil {
				f.Close()
				return nil, false, err
			}
		}
		return f, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("%w: open %s: %v", ErrIO, l.Path, err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName("Sheet1", l.Sheet); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("%w: name sheet %s: %v", ErrIO, l.Sheet, err)
	}
	if err := l.writeHeader(f); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

func (l *Ledger) writeHeader(f *excelize.File) error {
	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(l.Sheet, cell, title); err != nil {
			return fmt.Errorf("%w: write header: %v", ErrIO, err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: fontName, Size: fontSize, Bold: true},
	})
	if err != nil {
		return fmt.Errorf("%w: header style: %v", ErrIO, err)
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(l.Sheet, first, last, style); err != nil {
		return fmt.Errorf("%w: header style: %v", ErrIO, err)
	}
	return nil
}

// nextRow returns the first empty row below the used range.
func (l *Ledger) nextRow(f *excelize.File) (int, error) {
	rows, err := f.GetRows(l.Sheet)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %v", ErrIO, l.Sheet, err)
	}
	row := len(rows) + 1
	if row < 2 {
		row = 2
	}
	return row, nil
}

type rowStyles struct {
	date   int
	price  int
	volume int
}

func newRowStyles(f *excelize.File) (rowStyles, error) {
	var s rowStyles
	font := &excelize.Font{Family: fontName, Size: fontSize}

	for _, fs := range []struct {
		numFmt string
		id     *int
	}{
		{dateNumFmt, &s.date},
		{priceNumFmt, &s.price},
		{volumeNumFmt, &s.volume},
	} {
		numFmt := fs.numFmt
		id, err := f.NewStyle(&excelize.Style{Font: font, CustomNumFmt: &numFmt})
		if err != nil {
			return s, fmt.Errorf("%w: style %q: %v", ErrIO, fs.numFmt, err)
		}
		*fs.id = id
	}
	return s, nil
}

func (l *Ledger) writeRow(f *excelize.File, styles rowStyles, rowNum int, r model.PriceRow) error {
	values := []interface{}{
		r.Date,
		r.Open.InexactFloat64(),
		r.High.InexactFloat64(),
		r.Low.InexactFloat64(),
		r.Close.InexactFloat64(),
		r.AdjClose.InexactFloat64(),
		r.Volume,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
		if err := f.SetCellValue(l.Sheet, cell, v); err != nil {
			return fmt.Errorf("%w: write row %d: %v", ErrIO, rowNum, err)
		}
	}

	dateCell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetCellStyle(l.Sheet, dateCell, dateCell, styles.date); err != nil {
		return fmt.Errorf("%w: style row %d: %v", ErrIO, rowNum, err)
	}
	openCell, _ := excelize.CoordinatesToCellName(2, rowNum)
	adjCell, _ := excelize.CoordinatesToCellName(6, rowNum)
	if err := f.SetCellStyle(l.Sheet, openCell, adjCell, styles.price); err != nil {
		return fmt.Errorf("%w: style row %d: %v", ErrIO, rowNum, err)
	}
	volCell, _ := excelize.CoordinatesToCellName(7, rowNum)
	if err := f.SetCellStyle(l.Sheet, volCell, volCell, styles.volume); err != nil {
		return fmt.Errorf("%w: style row %d: %v", ErrIO, rowNum, err)
	}
	return nil
}
