package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PriceGrab/internal/collector"
	"PriceGrab/internal/config"
	"PriceGrab/internal/ingest"
	"PriceGrab/internal/ledger"
	"PriceGrab/internal/notifier"
	"PriceGrab/internal/recorder"
	"PriceGrab/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PriceGrab starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Source.UseChartAPI {
		fetcher = collector.NewChartAPIFetcher(cfg.Source.BaseURL, cfg.Proxy)
	} else {
		fetcher = collector.NewHistoryPageFetcher(cfg.Source.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s, symbol: %s", fetcher.Name(), cfg.Source.Symbol)

	// Init spreadsheet ledger
	led := ledger.New(cfg.Spreadsheet.Path, cfg.Spreadsheet.Sheet)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ing := ingest.New(fetcher, cfg.Source.Symbol, led, rec, tn)

	// One-shot mode: run the pass and report the outcome through the exit
	// status so an external scheduler can act on it.
	if cfg.Schedule.DailyCron == "" {
		err := ing.Run(ctx)
		rec.Close()
		if err != nil {
			log.Printf("[ERROR] run failed: %v", err)
			os.Exit(exitCode(err))
		}
		log.Println("[INFO] run complete")
		return
	}

	// Daemon mode: keep running on the configured cron schedule.
	defer rec.Close()

	sched := scheduler.NewScheduler(ctx, ing)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing grab now")
		go sched.RunNow()
	}

	log.Println("[INFO] PriceGrab is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PriceGrab stopped")
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, collector.ErrNetwork):
		return 2
	case errors.Is(err, collector.ErrParse):
		return 3
	case errors.Is(err, ledger.ErrIO):
		return 4
	}
	return 1
}
