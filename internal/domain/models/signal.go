package models

// Action is the trade direction a strategy or consensus votes for.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Regime classifies current market behavior for one instrument.
type Regime string

const (
	Trending Regime = "trending"
	Ranging  Regime = "ranging"
	Volatile Regime = "volatile"
)

// StrategyID identifies one strategy variant. The set is closed; rosters are
// configuration, never runtime string dispatch.
type StrategyID string

const (
	// Major-pair roster
	StrategyEMARSIADX         StrategyID = "ema_rsi_adx"
	StrategyMACDStochastic    StrategyID = "macd_stochastic"
	StrategyPriceActionVolume StrategyID = "price_action_volume"

	// Cross-pair roster
	StrategyBollingerStochastic StrategyID = "bollinger_stochastic"
	StrategyRSICCIATR           StrategyID = "rsi_cci_atr"
	StrategyMeanReversion       StrategyID = "mean_reversion"

	// Metal roster
	StrategyEMAMACDATR     StrategyID = "ema_macd_atr"
	StrategyTrendMomentum  StrategyID = "trend_momentum"
	StrategyBreakoutSystem StrategyID = "breakout_system"

	// Energy roster
	StrategyPriceActionRSI     StrategyID = "price_action_rsi"
	StrategyMomentumVolatility StrategyID = "momentum_volatility"
	StrategySupportResistance  StrategyID = "support_resistance"
)

// InstrumentClass groups instruments sharing a roster and level bounds.
type InstrumentClass string

const (
	ClassMajor  InstrumentClass = "major"
	ClassCross  InstrumentClass = "cross"
	ClassMetal  InstrumentClass = "metal"
	ClassEnergy InstrumentClass = "energy"
)

// Factor is one named, non-negative confidence contribution. The points of a
// signal's factors always sum to its BaseConfidence, so every confidence
// value is reproducible from its inputs.
type Factor struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// StrategySignal is a single strategy's directional vote. A strategy that
// abstains returns nil instead.
type StrategySignal struct {
	Strategy       StrategyID `json:"strategy"`
	Instrument     string     `json:"instrument"`
	Action         Action     `json:"action"`
	BaseConfidence float64    `json:"base_confidence"` // 0..100
	Factors        []Factor   `json:"factors"`
}

// ConsensusResult is the aggregated vote across an instrument's roster.
// When Action is empty no consensus was reached; the tally fields still carry
// the raw vote counts.
type ConsensusResult struct {
	Instrument      string            `json:"instrument"`
	Action          Action            `json:"action,omitempty"`
	VotesFor        int               `json:"votes_for"`
	VotesAgainst    int               `json:"votes_against"`
	TotalStrategies int               `json:"total_strategies"`
	Quorum          int               `json:"quorum"`
	AvgConfidence   float64           `json:"avg_confidence"`
	Members         []*StrategySignal `json:"members,omitempty"`
}

// Reached reports whether a winning action was found.
func (c *ConsensusResult) Reached() bool { return c.Action != "" }
