package repository

import (
	"context"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
	pkgcache "TradeCore/pkg/cache"
)

func newTestCache(t *testing.T) *CachedDecisions {
	t.Helper()
	mem := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	return NewCachedDecisions(mem, time.Minute)
}

func decisionFixture(instrument string, reason models.RejectionReason) *models.Decision {
	return &models.Decision{
		Instrument: instrument,
		CycleTime:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Regime:     models.Ranging,
		Reason:     reason,
	}
}

func TestCachedDecisionsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, decisionFixture("EURUSD", models.NoConsensus)); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.Latest(ctx, "EURUSD")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil || got.Instrument != "EURUSD" || got.Reason != models.NoConsensus {
		t.Fatalf("unexpected decision %+v", got)
	}
}

func TestCachedDecisionsMissIsNil(t *testing.T) {
	c := newTestCache(t)
	got, err := c.Latest(context.Background(), "GBPUSD")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
}

func TestCachedDecisionsAll(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, decisionFixture("EURUSD", models.NoConsensus)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, decisionFixture("XAUUSD", models.OutsideSession)); err != nil {
		t.Fatalf("put: %v", err)
	}

	all, err := c.All(ctx, []string{"EURUSD", "GBPUSD", "XAUUSD"})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 cached decisions, got %d", len(all))
	}
}

func TestStaticAccountDailyAnchor(t *testing.T) {
	a := NewStaticAccount(10000)
	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return day1 }

	st, _, err := a.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if st.DailyRealizedPnLPct != 0 {
		t.Fatalf("fresh day should report 0%%, got %v", st.DailyRealizedPnLPct)
	}

	// A 3% drawdown within the same day.
	a.Update(models.AccountState{Balance: 9700, Equity: 9700}, nil)
	st, _, err = a.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if st.DailyRealizedPnLPct > -2.9 || st.DailyRealizedPnLPct < -3.1 {
		t.Fatalf("expected about -3%%, got %v", st.DailyRealizedPnLPct)
	}

	// Next day the anchor resets to current equity.
	a.now = func() time.Time { return day1.Add(24 * time.Hour) }
	st, _, err = a.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if st.DailyRealizedPnLPct != 0 {
		t.Fatalf("new day should reset anchor, got %v", st.DailyRealizedPnLPct)
	}
}

func TestStaticAccountOpenPositionCount(t *testing.T) {
	a := NewStaticAccount(10000)
	a.Update(models.AccountState{Balance: 10000, Equity: 10000}, []models.OpenPosition{
		{Instrument: "EURUSD", Action: models.Buy, LotSize: 0.1},
		{Instrument: "XAUUSD", Action: models.Sell, LotSize: 0.05},
	})

	st, open, err := a.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if st.OpenPositionCount != 2 || len(open) != 2 {
		t.Fatalf("expected 2 open positions, got %d/%d", st.OpenPositionCount, len(open))
	}
}
