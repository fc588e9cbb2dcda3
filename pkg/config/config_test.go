package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
instruments:
  - symbol: EURUSD
    class: major
  - symbol: XAUUSD
    class: metal
    pip_size: 0.1
    commission_per_lot: 7
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Engine.CycleInterval != time.Minute {
		t.Fatalf("expected default cycle interval 60s, got %s", cfg.Engine.CycleInterval)
	}
	if cfg.Engine.Timeframe != "M5" || cfg.Engine.ConfirmTimeframe != "H1" {
		t.Fatalf("unexpected timeframes: %s %s", cfg.Engine.Timeframe, cfg.Engine.ConfirmTimeframe)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("expected memory cache default, got %s", cfg.Cache.Backend)
	}

	eur := cfg.Instrument("EURUSD")
	if eur == nil {
		t.Fatal("EURUSD not found")
	}
	if eur.Class != models.ClassMajor || eur.Quorum != 2 || eur.PipSize != 0.0001 {
		t.Fatalf("unexpected instrument defaults: %+v", eur)
	}
	if eur.Size.RiskFraction != 0.01 || eur.Size.LotMax != 0.5 {
		t.Fatalf("unexpected size defaults: %+v", eur.Size)
	}

	gold := cfg.Instrument("XAUUSD")
	if gold.PipSize != 0.1 || gold.CommissionPerLot != 7 {
		t.Fatalf("explicit values lost: %+v", gold)
	}
}

func TestSymbolsPreserveFileOrder(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	symbols := cfg.Symbols()
	if len(symbols) != 2 || symbols[0] != "EURUSD" || symbols[1] != "XAUUSD" {
		t.Fatalf("unexpected symbol order: %v", symbols)
	}
}

func TestLoadRejectsDuplicateSymbols(t *testing.T) {
	body := `
instruments:
  - symbol: EURUSD
  - symbol: EURUSD
`
	_, err := Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "listed twice") {
		t.Fatalf("expected duplicate symbol error, got %v", err)
	}
}

func TestLoadRejectsQuorumAboveRoster(t *testing.T) {
	body := `
instruments:
  - symbol: EURUSD
    quorum: 4
`
	_, err := Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "quorum") {
		t.Fatalf("expected quorum error, got %v", err)
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	body := minimalConfig + `
kafka:
  enabled: true
`
	_, err := Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "brokers") {
		t.Fatalf("expected kafka broker error, got %v", err)
	}
}

func TestLoadRejectsEmptyInstruments(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	if err == nil {
		t.Fatal("expected validation error for empty instruments")
	}
}

func TestLoadRejectsBadSessionWindow(t *testing.T) {
	body := minimalConfig + `
engine:
  admission:
    sessions:
      - from: 25
        to: 3
`
	_, err := Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "session") {
		t.Fatalf("expected session window error, got %v", err)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FEED_API_KEY", "env-key")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.APIKey != "env-key" {
		t.Fatalf("expected env api key, got %q", cfg.Feed.APIKey)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
}
