package server

import (
	"context"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	internalrepo "TradeCore/internal/repository"
	"TradeCore/internal/service/feed"
	"TradeCore/internal/services/engine"
	"TradeCore/internal/usecase"
	"TradeCore/pkg/config"
	applogger "TradeCore/pkg/logger"
	"TradeCore/pkg/metrics"
)

func testApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{}
	cfg.Engine.CycleInterval = 10 * time.Millisecond
	cfg.Engine.Timeframe = "M5"
	cfg.Engine.ConfirmTimeframe = "H1"
	cfg.Engine.Admission = engine.AdmissionConfig{
		MinConfidence:     70,
		MaxConcurrent:     3,
		MinMarginLevelPct: 200,
		DailyLossLimitPct: 5,
	}
	cfg.Instruments = []config.InstrumentConfig{{
		Symbol:  "EURUSD",
		Class:   models.ClassMajor,
		Quorum:  2,
		PipSize: 0.0001,
	}}

	log, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	fd := feed.New("", "ws://unused", cfg.Symbols(), []domrepo.Timeframe{domrepo.TFM5}, time.Second, time.Second, log)
	eval := usecase.NewEvaluator(fd, cfg, log)
	ctrl := engine.NewController(cfg.Engine.Admission)
	accounts := internalrepo.NewStaticAccount(10000)
	cycle := usecase.NewCycle(eval, ctrl, accounts, nil, nil, nil, metrics.New(), log, cfg.Symbols())

	return New(cfg, log, fd, cycle, nil, nil, nil, nil)
}

func TestCycleLoopRunsUntilCancelled(t *testing.T) {
	app := testApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.cycleLoop(ctx)
		close(done)
	}()

	// Let several ticks fire; with no candle history every instrument fails
	// locally and the loop must keep going.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cycle loop did not stop on cancel")
	}
}
