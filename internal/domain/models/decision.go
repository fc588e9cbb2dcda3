package models

import "time"

// RejectionReason names why a candidate did not become a trade. Rejections
// are first-class outcomes, not errors.
type RejectionReason string

const (
	NoConsensus              RejectionReason = "no_consensus"
	BelowConfidenceThreshold RejectionReason = "below_confidence_threshold"
	OutsideSession           RejectionReason = "outside_session"
	ConcurrencyLimitReached  RejectionReason = "concurrency_limit_reached"
	MarginTooLow             RejectionReason = "margin_too_low"
	DailyLossLimitHit        RejectionReason = "daily_loss_limit_hit"
	PositionAlreadyOpen      RejectionReason = "position_already_open"
	VolatileRegimeNoTrade    RejectionReason = "volatile_regime_no_trade"
)

// TradeIntent is the sole output artifact of an admitted decision. It is
// immutable and leaves the engine's custody once emitted.
type TradeIntent struct {
	Instrument      string           `json:"instrument"`
	Action          Action           `json:"action"`
	LotSize         float64          `json:"lot_size"`
	EntryPrice      float64          `json:"entry_price"`
	StopLossPrice   float64          `json:"stop_loss_price"`
	TakeProfitPrice float64          `json:"take_profit_price"`
	StopLossPips    float64          `json:"stop_loss_pips"`
	TakeProfitPips  float64          `json:"take_profit_pips"`
	Confidence      float64          `json:"confidence"`
	Commission      float64          `json:"commission"`
	Consensus       *ConsensusResult `json:"consensus"`
}

// Decision is the engine's answer for one (instrument, cycle): exactly one of
// Intent or Reason is set.
type Decision struct {
	Instrument string           `json:"instrument"`
	CycleTime  time.Time        `json:"cycle_time"`
	Regime     Regime           `json:"regime,omitempty"`
	Intent     *TradeIntent     `json:"intent,omitempty"`
	Reason     RejectionReason  `json:"reason,omitempty"`
	Consensus  *ConsensusResult `json:"consensus,omitempty"`
}

// Admitted reports whether the decision carries a trade intent.
func (d *Decision) Admitted() bool { return d.Intent != nil }
