package models

// AccountState is the per-cycle snapshot of account and margin state supplied
// by the execution collaborator. The engine never mutates it; admission works
// on its own copy of the open-position view.
type AccountState struct {
	Balance             float64 `json:"balance"`
	Equity              float64 `json:"equity"`
	MarginLevelPct      float64 `json:"margin_level_pct"` // 0 when no positions are open
	OpenPositionCount   int     `json:"open_position_count"`
	DailyRealizedPnLPct float64 `json:"daily_realized_pnl_pct"`
}

// OpenPosition identifies a live position held at the venue. Only the
// instrument matters for admission's one-position-per-instrument rule.
type OpenPosition struct {
	Instrument string  `json:"instrument"`
	Action     Action  `json:"action"`
	LotSize    float64 `json:"lot_size"`
}
