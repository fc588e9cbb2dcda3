package engine

import (
	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// signalThreshold is the minimum factor total a direction must accumulate
// before a strategy emits a vote.
const signalThreshold = 60

// EvalContext bundles everything a strategy may consult for one evaluation.
// Confirm is the optional higher-timeframe snapshot and may be nil.
type EvalContext struct {
	Snapshot   *indicators.Snapshot
	Confirm    *indicators.Snapshot
	Regime     models.Regime
	Levels     indicators.Levels
	Divergence indicators.Divergence
}

// Strategy is one named, independently testable signal generator. Evaluate
// returns nil to abstain. Implementations are pure and must not emit for a
// regime outside their Regimes set.
type Strategy interface {
	ID() models.StrategyID
	Regimes() []models.Regime
	Evaluate(ctx EvalContext) *models.StrategySignal
}

// EligibleFor reports whether the strategy may fire in the given regime.
func EligibleFor(s Strategy, regime models.Regime) bool {
	for _, r := range s.Regimes() {
		if r == regime {
			return true
		}
	}
	return false
}

// Roster returns the strategy set for one instrument class. The mapping is
// static; rosters and quorums arrive through configuration, and unknown
// classes get the major-pair roster.
func Roster(class models.InstrumentClass) []Strategy {
	switch class {
	case models.ClassCross:
		return []Strategy{bollingerStochastic{}, rsiCCIATR{}, meanReversion{}}
	case models.ClassMetal:
		return []Strategy{emaMACDATR{}, trendMomentum{}, breakoutSystem{}}
	case models.ClassEnergy:
		return []Strategy{priceActionRSI{}, momentumVolatility{}, supportResistance{}}
	default:
		return []Strategy{emaRSIADX{}, macdStochastic{}, priceActionVolume{}}
	}
}

// tally accumulates named factor points for one direction.
type tally struct {
	factors []models.Factor
	total   float64
}

func (t *tally) add(name string, points float64) {
	t.factors = append(t.factors, models.Factor{Name: name, Points: points})
	t.total += points
}

// pick resolves the buy/sell tallies into a signal, or nil when neither side
// reaches the threshold. When both qualify the sell side must be strictly
// stronger to win, mirroring the buy-first evaluation order.
func pick(id models.StrategyID, instrument string, buy, sell tally) *models.StrategySignal {
	action := models.Action("")
	winner := buy
	if buy.total >= signalThreshold {
		action = models.Buy
	}
	if sell.total >= signalThreshold && sell.total > buy.total {
		action = models.Sell
		winner = sell
	}
	if action == "" {
		return nil
	}
	// Factor point tables top out at 100, so the total needs no clamp and
	// always equals the sum of the emitted factors.
	return &models.StrategySignal{
		Strategy:       id,
		Instrument:     instrument,
		Action:         action,
		BaseConfidence: winner.total,
		Factors:        winner.factors,
	}
}

var trendingOnly = []models.Regime{models.Trending}
var rangingOnly = []models.Regime{models.Ranging}
var trendingOrRanging = []models.Regime{models.Trending, models.Ranging}
