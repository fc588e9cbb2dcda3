package engine

import (
	"errors"
	"testing"

	"TradeCore/internal/domain/models"
)

var defaultBounds = LevelBounds{SLMinPips: 5, SLMaxPips: 25, TPMinPips: 8, TPMaxPips: 40}

func TestLevelsTrending(t *testing.T) {
	// ATR of 10 pips: SL = 12, TP = 20.
	sl, tp, err := Levels(models.Trending, defaultBounds, 0.0010, 0.0001, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sl != 12 || tp != 20 {
		t.Fatalf("expected 12/20 pips, got %v/%v", sl, tp)
	}
}

func TestLevelsRanging(t *testing.T) {
	sl, tp, err := Levels(models.Ranging, defaultBounds, 0.0010, 0.0001, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sl != 8 || tp != 12 {
		t.Fatalf("expected 8/12 pips, got %v/%v", sl, tp)
	}
}

func TestLevelsVolatileNoTrade(t *testing.T) {
	_, _, err := Levels(models.Volatile, defaultBounds, 0.0010, 0.0001, 0)
	if !errors.Is(err, ErrNoTradeRegime) {
		t.Fatalf("expected ErrNoTradeRegime, got %v", err)
	}
}

func TestLevelsCommissionWidensTarget(t *testing.T) {
	_, tpPlain, err := Levels(models.Trending, defaultBounds, 0.0010, 0.0001, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, tpComm, err := Levels(models.Trending, defaultBounds, 0.0010, 0.0001, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpComm != tpPlain+2 {
		t.Fatalf("expected commission to widen target by 2, got %v -> %v", tpPlain, tpComm)
	}
}

func TestLevelsClampAcrossATRRange(t *testing.T) {
	atrs := []float64{0, 0.00001, 0.0005, 0.0010, 0.0050, 0.0500, 1.0}
	for _, regime := range []models.Regime{models.Trending, models.Ranging} {
		for _, atr := range atrs {
			sl, tp, err := Levels(regime, defaultBounds, atr, 0.0001, 0)
			if err != nil {
				t.Fatalf("%s atr %v: %v", regime, atr, err)
			}
			if sl < defaultBounds.SLMinPips || sl > defaultBounds.SLMaxPips {
				t.Fatalf("%s atr %v: sl %v out of bounds", regime, atr, sl)
			}
			if tp < defaultBounds.TPMinPips || tp > defaultBounds.TPMaxPips {
				t.Fatalf("%s atr %v: tp %v out of bounds", regime, atr, tp)
			}
		}
	}
}

func TestLevelsInvalidPipSize(t *testing.T) {
	if _, _, err := Levels(models.Trending, defaultBounds, 0.0010, 0, 0); err == nil {
		t.Fatalf("expected error for zero pip size")
	}
}
