package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/repository"
	pkgcache "TradeCore/pkg/cache"
	xlogger "TradeCore/pkg/logger"

	"github.com/labstack/echo/v4"
)

func testHandler(t *testing.T, symbols ...string) (*echo.Echo, *repository.CachedDecisions) {
	t.Helper()
	mem := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	decisions := repository.NewCachedDecisions(mem, time.Minute)

	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	e := echo.New()
	NewDecisionsHandler(log, decisions, symbols).RegisterRoutes(e)
	return e, decisions
}

func sampleDecision(instrument string) *models.Decision {
	return &models.Decision{
		Instrument: instrument,
		CycleTime:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Regime:     models.Trending,
		Reason:     models.BelowConfidenceThreshold,
	}
}

func TestLatestDecision(t *testing.T) {
	e, decisions := testHandler(t, "EURUSD", "XAUUSD")
	if err := decisions.Put(context.Background(), sampleDecision("EURUSD")); err != nil {
		t.Fatalf("put: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/decisions/EURUSD", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Instrument != "EURUSD" || got.Reason != models.BelowConfidenceThreshold {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestLatestDecisionNotYetEvaluated(t *testing.T) {
	e, _ := testHandler(t, "EURUSD")

	req := httptest.NewRequest(http.MethodGet, "/api/decisions/EURUSD", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLatestDecisionUnknownInstrument(t *testing.T) {
	e, _ := testHandler(t, "EURUSD")

	req := httptest.NewRequest(http.MethodGet, "/api/decisions/DOGEUSD", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAllDecisionsOmitsMissing(t *testing.T) {
	e, decisions := testHandler(t, "EURUSD", "XAUUSD", "USOIL")
	if err := decisions.Put(context.Background(), sampleDecision("EURUSD")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := decisions.Put(context.Background(), sampleDecision("USOIL")); err != nil {
		t.Fatalf("put: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/decisions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got []*models.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(got))
	}
}

func TestInstruments(t *testing.T) {
	e, _ := testHandler(t, "EURUSD", "XAUUSD")

	req := httptest.NewRequest(http.MethodGet, "/api/instruments", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0] != "EURUSD" {
		t.Fatalf("unexpected instruments: %v", got)
	}
}
