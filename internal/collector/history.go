package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"PriceGrab/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const defaultPageBaseURL = "https://finance.yahoo.com"

// historyColumns is the expected column layout of the historical prices table.
var historyColumns = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// HistoryPageFetcher scrapes the historical-data page of a Yahoo Finance quote.
type HistoryPageFetcher struct {
	BaseURL string
	Client  *resty.Client
}

// NewHistoryPageFetcher creates a page fetcher with optional proxy support.
func NewHistoryPageFetcher(baseURL, proxyURL string) *HistoryPageFetcher {
	if baseURL == "" {
		baseURL = defaultPageBaseURL
	}
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &HistoryPageFetcher{BaseURL: baseURL, Client: client}
}

func (f *HistoryPageFetcher) Name() string { return "yahoo-page" }

func (f *HistoryPageFetcher) FetchHistory(ctx context.Context, symbol string) ([]model.PriceRow, error) {
	u := fmt.Sprintf("%s/quote/%s/history?p=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(symbol))

	resp, err := f.Client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history page: %v", ErrNetwork, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: history page: status %d", ErrNetwork, resp.StatusCode())
	}

	rows, err := parseHistoryTable(resp.Body())
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

// parseHistoryTable locates the historical prices table and converts its body
// rows into PriceRows, in page order.
func parseHistoryTable(body []byte) ([]model.PriceRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrParse, err)
	}

	table := findHistoryTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: historical prices table not found", ErrParse)
	}

	var rows []model.PriceRow
	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < len(historyColumns) {
			// dividend and split annotations span fewer cells
			return true
		}
		row, ok, err := parseHistoryRow(cells)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i+1, err)
			return false
		}
		if ok {
			rows = append(rows, row)
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: historical prices table has no price rows", ErrParse)
	}
	return rows, nil
}

func findHistoryTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if headerMatches(t.Find("thead th")) {
			found = t
			return false
		}
		return true
	})
	return found
}

// headerMatches reports whether the header cells carry the expected column
// titles. Prefix match because Yahoo suffixes footnote markers ("Close*").
func headerMatches(header *goquery.Selection) bool {
	if header.Length() < len(historyColumns) {
		return false
	}
	for i, want := range historyColumns {
		if !strings.HasPrefix(strings.TrimSpace(header.Eq(i).Text()), want) {
			return false
		}
	}
	return true
}

const pageDateLayout = "Jan 02, 2006"

func parseHistoryRow(cells *goquery.Selection) (model.PriceRow, bool, error) {
	text := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }

	if text(1) == "-" && text(4) == "-" {
		// placeholder row for a day with no published prices
		return model.PriceRow{}, false, nil
	}

	date, err := time.Parse(pageDateLayout, text(0))
	if err != nil {
		return model.PriceRow{}, false, fmt.Errorf("%w: bad date %q", ErrParse, text(0))
	}

	var prices [5]decimal.Decimal
	for i := range prices {
		p, err := parsePrice(text(i + 1))
		if err != nil {
			return model.PriceRow{}, false,
				fmt.Errorf("%w: bad %s %q", ErrParse, strings.ToLower(historyColumns[i+1]), text(i+1))
		}
		prices[i] = p
	}

	volume, err := parseVolume(text(6))
	if err != nil {
		return model.PriceRow{}, false, fmt.Errorf("%w: bad volume %q", ErrParse, text(6))
	}

	return model.PriceRow{
		Date:     date,
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		AdjClose: prices[4],
		Volume:   volume,
	}, true, nil
}

// parsePrice converts localized numeric text (thousands commas) to a decimal.
func parsePrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

func parseVolume(s string) (int64, error) {
	if s == "-" {
		return 0, nil
	}
	return strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
}
