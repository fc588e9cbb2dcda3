package indicators

import (
	"testing"
	"time"

	"TradeCore/internal/domain/models"
)

// flatWithPivots builds a flat series with one spike high and one dip low so
// exactly those two bars qualify as pivots.
func flatWithPivots(n, highAt, lowAt int) *models.CandleSeries {
	t0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Candle, n)
	for i := range bars {
		bars[i] = models.Candle{
			Time:  t0.Add(time.Duration(i) * 5 * time.Minute),
			Open:  1.1000,
			High:  1.1010,
			Low:   1.0990,
			Close: 1.1000, Volume: 1000,
		}
	}
	if highAt >= 0 {
		bars[highAt].High = 1.1100
	}
	if lowAt >= 0 {
		bars[lowAt].Low = 1.0900
	}
	return &models.CandleSeries{Instrument: "EURUSD", Timeframe: "M5", Bars: bars}
}

func TestDetectLevelsFindsPivots(t *testing.T) {
	levels := DetectLevels(flatWithPivots(50, 25, 35))

	if len(levels.Resistance) != 1 || levels.Resistance[0] != 1.1100 {
		t.Fatalf("expected resistance [1.1100], got %v", levels.Resistance)
	}
	if len(levels.Support) != 1 || levels.Support[0] != 1.0900 {
		t.Fatalf("expected support [1.0900], got %v", levels.Support)
	}
}

func TestDetectLevelsIgnoresEdgePivots(t *testing.T) {
	// Spikes within the pivot wing of either edge cannot be confirmed.
	levels := DetectLevels(flatWithPivots(50, 2, 48))

	if len(levels.Resistance) != 0 {
		t.Fatalf("expected no resistance, got %v", levels.Resistance)
	}
	if len(levels.Support) != 0 {
		t.Fatalf("expected no support, got %v", levels.Support)
	}
}

func TestDetectLevelsShortSeries(t *testing.T) {
	levels := DetectLevels(flatWithPivots(2*pivotWing, -1, -1))
	if len(levels.Support) != 0 || len(levels.Resistance) != 0 {
		t.Fatalf("expected empty levels, got %+v", levels)
	}

	levels = DetectLevels(nil)
	if len(levels.Support) != 0 || len(levels.Resistance) != 0 {
		t.Fatalf("expected empty levels for nil series, got %+v", levels)
	}
}

func TestNearLevel(t *testing.T) {
	levels := []float64{1.1000, 1.2000}

	if !NearLevel(1.1005, levels) {
		t.Fatal("expected 1.1005 near 1.1000")
	}
	if NearLevel(1.1500, levels) {
		t.Fatal("expected 1.1500 not near any level")
	}
	if NearLevel(1.1005, nil) {
		t.Fatal("expected no proximity with empty levels")
	}
}
