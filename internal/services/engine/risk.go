package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidStopDistance is returned when sizing is requested with a
// non-positive stop distance. Risk per lot is undefined without one.
var ErrInvalidStopDistance = errors.New("engine: stop distance must be positive")

// SizeConfig carries the per-instrument sizing parameters.
type SizeConfig struct {
	RiskFraction float64 `yaml:"risk_fraction" default:"0.01" validate:"gt=0,lte=1"`
	PipValue     float64 `yaml:"pip_value" default:"10" validate:"gt=0"`
	LotStep      float64 `yaml:"lot_step" default:"0.01" validate:"gt=0"`
	LotMin       float64 `yaml:"lot_min" default:"0.01" validate:"gt=0"`
	LotMax       float64 `yaml:"lot_max" default:"0.5" validate:"gtefield=LotMin"`
}

// Size converts account balance and stop distance into a lot size. The lot
// is rounded down to the instrument's lot step so the realized loss at a
// stop-out never exceeds RiskFraction of the balance, then clamped to the
// configured lot bounds.
func Size(cfg SizeConfig, balance, stopPips float64) (float64, error) {
	if stopPips <= 0 {
		return 0, ErrInvalidStopDistance
	}

	riskAmount := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(cfg.RiskFraction))
	perLot := decimal.NewFromFloat(stopPips).Mul(decimal.NewFromFloat(cfg.PipValue))
	step := decimal.NewFromFloat(cfg.LotStep)

	// Floor to the lot step; rounding up would break the risk bound.
	lots := riskAmount.Div(perLot).Div(step).Floor().Mul(step)

	if min := decimal.NewFromFloat(cfg.LotMin); lots.LessThan(min) {
		lots = min
	}
	if max := decimal.NewFromFloat(cfg.LotMax); lots.GreaterThan(max) {
		lots = max
	}
	f, _ := lots.Float64()
	return f, nil
}
