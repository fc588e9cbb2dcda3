package engine

import (
	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// ScoreConfig tunes the auxiliary bonuses applied on top of a strategy's
// base confidence. All bonuses are additive and the result is clamped to
// [0,100].
type ScoreConfig struct {
	LevelBonus      float64 `yaml:"level_bonus" default:"10"`
	VolumeBonus     float64 `yaml:"volume_bonus" default:"10"`
	DivergenceBonus float64 `yaml:"divergence_bonus" default:"5"`
	EMASpreadBonus  float64 `yaml:"ema_spread_bonus" default:"5"`

	// DivergenceVeto drops the signal outright when a contradicting
	// RSI/price divergence is present. When false the penalty below is
	// subtracted instead.
	DivergenceVeto    bool    `yaml:"divergence_veto" default:"true"`
	DivergencePenalty float64 `yaml:"divergence_penalty" default:"15"`

	// EMASpreadMinPct is the EMA20/EMA50 separation, as a percentage of
	// price, above which the trend is considered established.
	EMASpreadMinPct float64 `yaml:"ema_spread_min_pct" default:"0.05"`
}

// Score adjusts an emitted signal's confidence with auxiliary evidence.
// It never turns an abstention into a signal: a nil input stays nil. A
// contradicting divergence vetoes the signal when configured to, which is
// the only path from signal back to abstention.
func Score(cfg ScoreConfig, sig *models.StrategySignal, ctx EvalContext) *models.StrategySignal {
	if sig == nil {
		return nil
	}

	s := ctx.Snapshot

	out := *sig
	out.Factors = append([]models.Factor(nil), sig.Factors...)
	total := sig.BaseConfidence

	if ctx.Divergence.Contradicts(sig.Action) {
		if cfg.DivergenceVeto {
			return nil
		}
		total -= cfg.DivergencePenalty
		out.Factors = append(out.Factors, models.Factor{Name: "divergence_penalty", Points: -cfg.DivergencePenalty})
	} else {
		total += cfg.DivergenceBonus
		out.Factors = append(out.Factors, models.Factor{Name: "no_divergence", Points: cfg.DivergenceBonus})
	}

	close := s.At(indicators.Close)
	if indicators.NearLevel(close, ctx.Levels.Support) || indicators.NearLevel(close, ctx.Levels.Resistance) {
		total += cfg.LevelBonus
		out.Factors = append(out.Factors, models.Factor{Name: "near_key_level", Points: cfg.LevelBonus})
	}

	if s.At(indicators.Volume) > s.At(indicators.VolumeAvg20)*1.2 {
		total += cfg.VolumeBonus
		out.Factors = append(out.Factors, models.Factor{Name: "volume_confirmation", Points: cfg.VolumeBonus})
	}

	if emaSpreadPct(s) > cfg.EMASpreadMinPct {
		total += cfg.EMASpreadBonus
		out.Factors = append(out.Factors, models.Factor{Name: "ema_separation", Points: cfg.EMASpreadBonus})
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	out.BaseConfidence = total
	return &out
}

func emaSpreadPct(s *indicators.Snapshot) float64 {
	close := s.At(indicators.Close)
	if close <= 0 {
		return 0
	}
	spread := s.At(indicators.EMA20) - s.At(indicators.EMA50)
	if spread < 0 {
		spread = -spread
	}
	return spread / close * 100
}
