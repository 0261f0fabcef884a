package ingest

import (
	"context"
	"fmt"
	"log"

	"PriceGrab/internal/collector"
	"PriceGrab/internal/ledger"
	"PriceGrab/internal/notifier"
	"PriceGrab/internal/recorder"
)

// Ingestor runs the fetch → extract → filter → append pass for one symbol.
type Ingestor struct {
	Fetcher  collector.Fetcher
	Symbol   string
	Ledger   *ledger.Ledger
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier
}

// New creates an Ingestor.
func New(f collector.Fetcher, symbol string, l *ledger.Ledger, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Ingestor {
	return &Ingestor{
		Fetcher:  f,
		Symbol:   symbol,
		Ledger:   l,
		Recorder: rec,
		Notifier: tn,
	}
}

// Run executes one ingestion pass. All novel rows are staged in memory first;
// the spreadsheet is written at most once, at the end, so any failure before
// the save leaves it unmodified.
func (g *Ingestor) Run(ctx context.Context) error {
	rows, err := g.Fetcher.FetchHistory(ctx, g.Symbol)
	if err != nil {
		g.notify(ctx, fmt.Sprintf("❌ %s: fetch failed: %v", g.Symbol, err))
		return fmt.Errorf("fetch history: %w", err)
	}

	lastDate, err := g.Ledger.LastDate()
	if err != nil {
		return fmt.Errorf("read last date: %w", err)
	}

	novel := FilterNovel(rows, lastDate)
	if len(novel) == 0 {
		log.Println("[INFO] markets are closed today, no update")
		return nil
	}

	if err := g.Ledger.Append(novel); err != nil {
		g.notify(ctx, fmt.Sprintf("❌ %s: spreadsheet update failed: %v\nIs the file open on another device?", g.Symbol, err))
		return fmt.Errorf("append rows: %w", err)
	}

	if err := g.Recorder.RecordRows(g.Symbol, novel); err != nil {
		log.Printf("[ERROR] record rows: %v", err)
	}

	g.notify(ctx, notifier.FormatUpdateReport(g.Symbol, novel))
	log.Printf("[INFO] %s: %d new row(s) through %s",
		g.Symbol, len(novel), novel[len(novel)-1].Date.Format("2006-01-02"))
	return nil
}

func (g *Ingestor) notify(ctx context.Context, text string) {
	if g.Notifier == nil || !g.Notifier.Enabled() {
		return
	}
	if err := g.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] telegram notify: %v", err)
	}
}
