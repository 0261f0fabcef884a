package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Symbol != "CPSS" {
		t.Errorf("expected default symbol CPSS, got %q", cfg.Source.Symbol)
	}
	if cfg.Spreadsheet.Path != "data/prices.xlsx" {
		t.Errorf("expected default spreadsheet path, got %q", cfg.Spreadsheet.Path)
	}
	if cfg.Spreadsheet.Sheet != "Prices" {
		t.Errorf("expected default sheet name, got %q", cfg.Spreadsheet.Sheet)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
source:
  symbol: MSFT
  use_chart_api: true
spreadsheet:
  path: /srv/prices.xlsx
  sheet: volume limit
schedule:
  daily_cron: "0 30 14 * * 1-5"
database:
  sqlite_path: data/prices.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Symbol != "MSFT" {
		t.Errorf("expected MSFT, got %q", cfg.Source.Symbol)
	}
	if !cfg.Source.UseChartAPI {
		t.Error("expected chart API enabled")
	}
	if cfg.Spreadsheet.Sheet != "volume limit" {
		t.Errorf("expected sheet 'volume limit', got %q", cfg.Spreadsheet.Sheet)
	}
	if cfg.Schedule.DailyCron != "0 30 14 * * 1-5" {
		t.Errorf("unexpected cron: %q", cfg.Schedule.DailyCron)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SYMBOL", "AAPL")
	t.Setenv("SPREADSHEET_PATH", "/tmp/aapl.xlsx")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Symbol != "AAPL" {
		t.Errorf("expected env override AAPL, got %q", cfg.Source.Symbol)
	}
	if cfg.Spreadsheet.Path != "/tmp/aapl.xlsx" {
		t.Errorf("expected env override path, got %q", cfg.Spreadsheet.Path)
	}
}

func TestValidate_TelegramChatIDRequired(t *testing.T) {
	cfg := &Config{}
	cfg.Source.Symbol = "CPSS"
	cfg.Spreadsheet.Path = "data/prices.xlsx"
	cfg.Telegram.BotToken = "token"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bot token without chat id")
	}
}
