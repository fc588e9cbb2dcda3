package usecase

import (
	"fmt"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/internal/services/engine"
	"TradeCore/internal/services/indicators"
	"TradeCore/pkg/config"
	"TradeCore/pkg/logger"
)

// Evaluator runs the full per-instrument analysis: indicators, regime,
// strategy votes, confidence scoring, consensus, sizing, and stop/target
// levels. It is pure relative to its inputs; all shared state lives behind
// the admission controller.
type Evaluator struct {
	feed      domrepo.CandleFeed
	cfg       *config.Config
	primary   domrepo.Timeframe
	confirm   domrepo.Timeframe
	log       *logger.Logger
	debugVote bool
}

func NewEvaluator(feed domrepo.CandleFeed, cfg *config.Config, log *logger.Logger) *Evaluator {
	return &Evaluator{
		feed:      feed,
		cfg:       cfg,
		primary:   domrepo.NormalizeTimeframe(cfg.Engine.Timeframe),
		confirm:   domrepo.Timeframe(cfg.Engine.ConfirmTimeframe),
		log:       log,
		debugVote: cfg.Environment != "production",
	}
}

// Analyze produces the admission candidate for one instrument against the
// cycle's account balance. Data-quality failures return an error and affect
// only this instrument's cycle.
func (e *Evaluator) Analyze(symbol string, balance float64) (engine.Candidate, error) {
	inst := e.cfg.Instrument(symbol)
	if inst == nil {
		return engine.Candidate{}, fmt.Errorf("analyze %s: instrument not configured", symbol)
	}

	series := e.feed.Series(symbol, e.primary)
	if series == nil {
		return engine.Candidate{}, fmt.Errorf("analyze %s: %w", symbol, indicators.ErrInsufficientHistory)
	}

	snapshot, err := indicators.BuildSnapshot(series)
	if err != nil {
		return engine.Candidate{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	// The higher timeframe is optional; single-timeframe mode is normal.
	var confirm *indicators.Snapshot
	if e.confirm != "" && domrepo.IsValidTimeframe(e.confirm) {
		if cs := e.feed.Series(symbol, e.confirm); cs != nil {
			confirm, err = indicators.BuildConfirm(cs)
			if err != nil {
				return engine.Candidate{}, fmt.Errorf("analyze %s confirm: %w", symbol, err)
			}
		}
	}

	regime, err := engine.ClassifyRegime(snapshot, e.cfg.Engine.Regime)
	if err != nil {
		return engine.Candidate{}, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	evalCtx := engine.EvalContext{
		Snapshot:   snapshot,
		Confirm:    confirm,
		Regime:     regime,
		Levels:     indicators.DetectLevels(series),
		Divergence: indicators.DetectDivergence(series),
	}

	roster := engine.Roster(inst.Class)
	signals := make([]*models.StrategySignal, len(roster))
	for i, strat := range roster {
		if !engine.EligibleFor(strat, regime) {
			continue
		}
		sig := strat.Evaluate(evalCtx)
		sig = engine.Score(e.cfg.Engine.Score, sig, evalCtx)
		signals[i] = sig
		if e.debugVote && sig != nil {
			e.log.Debug("strategy vote",
				logger.String("instrument", symbol),
				logger.String("strategy", string(strat.ID())),
				logger.String("action", string(sig.Action)),
				logger.Float64("confidence", sig.BaseConfidence))
		}
	}

	consensus := engine.Aggregate(symbol, signals, inst.Quorum)
	cand := engine.Candidate{
		Instrument: symbol,
		Regime:     regime,
		Consensus:  consensus,
	}
	if !consensus.Reached() {
		return cand, nil
	}

	intent, err := e.buildIntent(inst, snapshot, regime, consensus, balance)
	if err != nil {
		if regime == models.Volatile {
			// Admission reports the volatile veto; no intent is needed.
			return cand, nil
		}
		return cand, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	cand.Intent = intent
	return cand, nil
}

func (e *Evaluator) buildIntent(inst *config.InstrumentConfig, snapshot *indicators.Snapshot, regime models.Regime, consensus models.ConsensusResult, balance float64) (*models.TradeIntent, error) {
	atr, err := snapshot.Value(indicators.ATR14)
	if err != nil {
		return nil, err
	}
	entry, err := snapshot.Value(indicators.Close)
	if err != nil {
		return nil, err
	}

	commissionPips := 0.0
	if inst.Size.PipValue > 0 {
		commissionPips = inst.CommissionPerLot / inst.Size.PipValue
	}

	slPips, tpPips, err := engine.Levels(regime, inst.Bounds, atr, inst.PipSize, commissionPips)
	if err != nil {
		return nil, err
	}

	lots, err := engine.Size(inst.Size, balance, slPips)
	if err != nil {
		return nil, err
	}

	slDist := slPips * inst.PipSize
	tpDist := tpPips * inst.PipSize
	intent := &models.TradeIntent{
		Instrument:     inst.Symbol,
		Action:         consensus.Action,
		LotSize:        lots,
		EntryPrice:     entry,
		StopLossPips:   slPips,
		TakeProfitPips: tpPips,
		Confidence:     consensus.AvgConfidence,
		Commission:     inst.CommissionPerLot * lots,
		Consensus:      &consensus,
	}
	switch consensus.Action {
	case models.Buy:
		intent.StopLossPrice = entry - slDist
		intent.TakeProfitPrice = entry + tpDist
	case models.Sell:
		intent.StopLossPrice = entry + slDist
		intent.TakeProfitPrice = entry - tpDist
	}
	return intent, nil
}
