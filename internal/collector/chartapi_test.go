package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartBody(timestamps []int64) string {
	ts := ""
	open, high, low, cls, adj, vol := "", "", "", "", "", ""
	for i, v := range timestamps {
		if i > 0 {
			ts += ","
			open += ","
			high += ","
			low += ","
			cls += ","
			adj += ","
			vol += ","
		}
		ts += fmt.Sprintf("%d", v)
		open += "5.10"
		high += "5.25"
		low += "5.05"
		cls += "5.20"
		adj += "5.12"
		vol += "1000000"
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],
		"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}],
		"adjclose":[{"adjclose":[%s]}]}}],"error":null}}`,
		ts, open, high, low, cls, vol, adj)
}

func TestChartAPIFetcher_FetchHistory(t *testing.T) {
	day1 := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC).Unix()
	day2 := time.Date(2024, 1, 11, 14, 30, 0, 0, time.UTC).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody([]int64{day2, day1})))
	}))
	defer srv.Close()

	f := NewChartAPIFetcher(srv.URL, "")
	rows, err := f.FetchHistory(context.Background(), "CPSS")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Date.Format("2006-01-02"); got != "2024-01-10" {
		t.Errorf("expected ascending order starting 2024-01-10, got %s", got)
	}
	if got := rows[0].AdjClose.StringFixed(2); got != "5.12" {
		t.Errorf("expected adj close 5.12, got %s", got)
	}
	if h, m, s := rows[0].Date.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("expected date truncated to midnight, got %v", rows[0].Date)
	}
}

func TestChartAPIFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	f := NewChartAPIFetcher(srv.URL, "")
	_, err := f.FetchHistory(context.Background(), "NOPE")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestChartAPIFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewChartAPIFetcher(srv.URL, "")
	_, err := f.FetchHistory(context.Background(), "CPSS")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
