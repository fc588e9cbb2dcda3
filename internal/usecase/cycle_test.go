package usecase

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/internal/services/engine"
	"TradeCore/pkg/config"
	"TradeCore/pkg/logger"
)

// --- fakes ---

type fakeFeed struct {
	series map[string]*models.CandleSeries
}

func (f *fakeFeed) Series(instrument string, tf domrepo.Timeframe) *models.CandleSeries {
	return f.series[instrument+"/"+string(tf)]
}

type fakeAccounts struct {
	state models.AccountState
	open  []models.OpenPosition
	err   error
}

func (f *fakeAccounts) Snapshot(ctx context.Context) (models.AccountState, []models.OpenPosition, error) {
	return f.state, f.open, f.err
}

type fakeStore struct {
	stored []*models.Decision
}

func (f *fakeStore) Store(ctx context.Context, d *models.Decision) error {
	f.stored = append(f.stored, d)
	return nil
}

func (f *fakeStore) StoreBatch(ctx context.Context, ds []*models.Decision) error {
	f.stored = append(f.stored, ds...)
	return nil
}

type fakePublisher struct {
	published []*models.TradeIntent
}

func (f *fakePublisher) Publish(ctx context.Context, intent *models.TradeIntent) error {
	f.published = append(f.published, intent)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordDecision(string, string) {}
func (nopMetrics) RecordCycleDuration(float64)   {}
func (nopMetrics) RecordEvalError(string)        {}
func (nopMetrics) RecordLotSize(string, float64) {}
func (nopMetrics) SetOpenPositions(int)          {}
func (nopMetrics) RecordPublishError(string)     {}

// --- fixtures ---

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testConfig(symbols ...string) *config.Config {
	cfg := &config.Config{}
	cfg.Engine.Timeframe = "M5"
	cfg.Engine.ConfirmTimeframe = ""
	cfg.Engine.Regime = engine.RegimeConfig{TrendADX: 25, VolatileWidthRatio: 1.5}
	cfg.Engine.Score = engine.ScoreConfig{
		LevelBonus: 10, VolumeBonus: 10, DivergenceBonus: 5, EMASpreadBonus: 5,
		DivergenceVeto: true, DivergencePenalty: 15, EMASpreadMinPct: 0.05,
	}
	cfg.Engine.Admission = engine.AdmissionConfig{
		MinConfidence: 60, MaxConcurrent: 3, MinMarginLevelPct: 200, DailyLossLimitPct: 5,
	}
	for _, s := range symbols {
		cfg.Instruments = append(cfg.Instruments, config.InstrumentConfig{
			Symbol:  s,
			Class:   models.ClassMajor,
			Quorum:  2,
			PipSize: 0.0001,
			Size: engine.SizeConfig{
				RiskFraction: 0.01, PipValue: 10, LotStep: 0.01, LotMin: 0.01, LotMax: 0.5,
			},
			Bounds: engine.LevelBounds{SLMinPips: 5, SLMaxPips: 25, TPMinPips: 8, TPMaxPips: 40},
		})
	}
	return cfg
}

// syntheticSeries builds a deterministic 300-bar series with a mild uptrend
// and periodic swings, enough history for every indicator lookback.
func syntheticSeries(instrument string, n int) *models.CandleSeries {
	bars := make([]models.Candle, n)
	base := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	price := 1.1000
	for i := 0; i < n; i++ {
		drift := 0.00002
		swing := 0.0008 * math.Sin(float64(i)/12)
		open := price
		close := price + drift + 0.0003*math.Sin(float64(i)/5) + swing/10
		high := math.Max(open, close) + 0.0002
		low := math.Min(open, close) - 0.0002
		bars[i] = models.Candle{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1000 + 100*math.Sin(float64(i)/7),
		}
		price = close
	}
	return &models.CandleSeries{Instrument: instrument, Timeframe: "M5", Bars: bars}
}

func newTestCycle(t *testing.T, symbols []string) (*Cycle, *fakeStore, *fakePublisher) {
	t.Helper()
	cfg := testConfig(symbols...)
	feed := &fakeFeed{series: map[string]*models.CandleSeries{}}
	for _, s := range symbols {
		feed.series[s+"/M5"] = syntheticSeries(s, 300)
	}
	log := testLogger(t)
	eval := NewEvaluator(feed, cfg, log)
	store := &fakeStore{}
	pub := &fakePublisher{}
	cycle := NewCycle(
		eval,
		engine.NewController(cfg.Engine.Admission),
		&fakeAccounts{state: models.AccountState{Balance: 10000, Equity: 10000}},
		store,
		pub,
		nil,
		nopMetrics{},
		log,
		symbols,
	)
	return cycle, store, pub
}

// --- tests ---

func TestCycleOneDecisionPerInstrument(t *testing.T) {
	symbols := []string{"EURUSD", "GBPUSD"}
	cycle, store, _ := newTestCycle(t, symbols)

	decisions, err := cycle.Run(context.Background(), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(decisions) != len(symbols) {
		t.Fatalf("expected %d decisions, got %d", len(symbols), len(decisions))
	}
	for i, d := range decisions {
		if d.Instrument != symbols[i] {
			t.Fatalf("decision %d: expected %s, got %s", i, symbols[i], d.Instrument)
		}
		if d.Admitted() == (d.Reason != "") {
			t.Fatalf("%s: exactly one of intent or reason must be set: %+v", d.Instrument, d)
		}
	}
	if len(store.stored) != len(symbols) {
		t.Fatalf("expected %d stored decisions, got %d", len(symbols), len(store.stored))
	}
}

func TestCycleSkipsFailingInstrument(t *testing.T) {
	symbols := []string{"EURUSD", "GBPUSD"}
	cycle, _, _ := newTestCycle(t, symbols)
	// Starve one instrument of history.
	cycle.eval.feed.(*fakeFeed).series["GBPUSD/M5"] = syntheticSeries("GBPUSD", 50)

	decisions, err := cycle.Run(context.Background(), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected the healthy instrument only, got %d decisions", len(decisions))
	}
	if decisions[0].Instrument != "EURUSD" {
		t.Fatalf("expected EURUSD to survive, got %s", decisions[0].Instrument)
	}
}

func TestCycleIdempotent(t *testing.T) {
	symbols := []string{"EURUSD", "GBPUSD"}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first, _, _ := newTestCycle(t, symbols)
	a, err := first.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, _ := newTestCycle(t, symbols)
	b, err := second.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different decisions:\n%+v\n%+v", a, b)
	}
}

func TestCyclePublishesAdmittedIntentsOnly(t *testing.T) {
	symbols := []string{"EURUSD"}
	cycle, _, pub := newTestCycle(t, symbols)

	decisions, err := cycle.Run(context.Background(), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	admitted := 0
	for _, d := range decisions {
		if d.Admitted() {
			admitted++
		}
	}
	if len(pub.published) != admitted {
		t.Fatalf("published %d intents for %d admissions", len(pub.published), admitted)
	}
}

func TestCycleAccountSnapshotFailureAborts(t *testing.T) {
	symbols := []string{"EURUSD"}
	cycle, _, _ := newTestCycle(t, symbols)
	cycle.accounts = &fakeAccounts{err: context.DeadlineExceeded}

	if _, err := cycle.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected account snapshot failure to abort the cycle")
	}
}
