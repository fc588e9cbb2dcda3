package indicators

import (
	"testing"
	"time"

	"TradeCore/internal/domain/models"
)

func seriesFromCloses(closes []float64) *models.CandleSeries {
	t0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Candle, len(closes))
	for i, c := range closes {
		bars[i] = models.Candle{
			Time:  t0.Add(time.Duration(i) * 5 * time.Minute),
			Open:  c,
			High:  c + 0.1,
			Low:   c - 0.1,
			Close: c, Volume: 1000,
		}
	}
	return &models.CandleSeries{Instrument: "XAUUSD", Timeframe: "M5", Bars: bars}
}

func TestDetectDivergenceBearish(t *testing.T) {
	// Bars 0..19 rally hard, so RSI at the reference bar is pinned high.
	// Bars 20..38 sell off, then the last bar pokes a marginally higher high
	// with RSI exhausted.
	closes := make([]float64, 40)
	for i := 0; i < 20; i++ {
		closes[i] = 100 + float64(i)
	}
	for i := 20; i < 39; i++ {
		closes[i] = 119 - 0.8*float64(i-19)
	}
	closes[39] = closes[38] + 0.3
	series := seriesFromCloses(closes)
	series.Bars[39].High = series.Bars[19].High + 0.5

	if got := DetectDivergence(series); got != DivergenceBearish {
		t.Fatalf("expected bearish divergence, got %q", got)
	}
}

func TestDetectDivergenceBullish(t *testing.T) {
	closes := make([]float64, 40)
	for i := 0; i < 20; i++ {
		closes[i] = 120 - float64(i)
	}
	for i := 20; i < 39; i++ {
		closes[i] = 101 + 0.8*float64(i-19)
	}
	closes[39] = closes[38] - 0.3
	series := seriesFromCloses(closes)
	series.Bars[39].Low = series.Bars[19].Low - 0.5

	if got := DetectDivergence(series); got != DivergenceBullish {
		t.Fatalf("expected bullish divergence, got %q", got)
	}
}

func TestDetectDivergenceNone(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	if got := DetectDivergence(seriesFromCloses(closes)); got != DivergenceNone {
		t.Fatalf("expected no divergence, got %q", got)
	}

	if got := DetectDivergence(nil); got != DivergenceNone {
		t.Fatalf("expected no divergence for nil series, got %q", got)
	}
}

func TestDivergenceContradicts(t *testing.T) {
	if !DivergenceBearish.Contradicts(models.Buy) {
		t.Fatal("bearish divergence should contradict a buy")
	}
	if !DivergenceBullish.Contradicts(models.Sell) {
		t.Fatal("bullish divergence should contradict a sell")
	}
	if DivergenceBullish.Contradicts(models.Buy) {
		t.Fatal("bullish divergence should not contradict a buy")
	}
	if DivergenceNone.Contradicts(models.Buy) {
		t.Fatal("no divergence contradicts nothing")
	}
}
