package engine

import (
	"errors"
	"fmt"

	"TradeCore/internal/domain/models"
)

// ErrNoTradeRegime is returned when stop/target levels are requested for a
// regime that forbids trading.
var ErrNoTradeRegime = errors.New("engine: no trading in the current regime")

// LevelBounds clamps the ATR-derived stop and target distances, in pips.
// Bound tables are configured per instrument class.
type LevelBounds struct {
	SLMinPips float64 `yaml:"sl_min_pips" default:"5" validate:"gt=0"`
	SLMaxPips float64 `yaml:"sl_max_pips" default:"25" validate:"gtefield=SLMinPips"`
	TPMinPips float64 `yaml:"tp_min_pips" default:"8" validate:"gt=0"`
	TPMaxPips float64 `yaml:"tp_max_pips" default:"40" validate:"gtefield=TPMinPips"`
}

// atrPolicy is the fixed per-regime ATR multiple table. Trending trades run
// wider stops and further targets than ranging ones; volatile markets are
// not traded at all.
var atrPolicy = map[models.Regime]struct{ sl, tp float64 }{
	models.Trending: {sl: 1.2, tp: 2.0},
	models.Ranging:  {sl: 0.8, tp: 1.2},
}

// Levels converts the regime and current ATR into clamped stop-loss and
// take-profit distances in pips. commissionPips widens the target so the
// round-trip cost is covered before the clamp is applied. pipSize is the
// price increment of one pip for the instrument.
func Levels(regime models.Regime, bounds LevelBounds, atr, pipSize, commissionPips float64) (slPips, tpPips float64, err error) {
	policy, ok := atrPolicy[regime]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoTradeRegime, regime)
	}
	if pipSize <= 0 {
		return 0, 0, fmt.Errorf("engine: invalid pip size %v", pipSize)
	}

	atrPips := atr / pipSize
	slPips = clamp(atrPips*policy.sl, bounds.SLMinPips, bounds.SLMaxPips)
	tpPips = clamp(atrPips*policy.tp+commissionPips, bounds.TPMinPips, bounds.TPMaxPips)
	return slPips, tpPips, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
