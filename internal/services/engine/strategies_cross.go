package engine

import (
	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// Cross-pair roster: mean reversion around bands, oscillators, and the
// 50-bar mean.

// bollingerStochastic fades touches of the outer Bollinger band when the
// stochastic agrees the move is exhausted.
type bollingerStochastic struct{}

func (bollingerStochastic) ID() models.StrategyID    { return models.StrategyBollingerStochastic }
func (bollingerStochastic) Regimes() []models.Regime { return rangingOnly }

func (bollingerStochastic) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	upper := s.At(indicators.BBUpper)
	lower := s.At(indicators.BBLower)
	k := s.At(indicators.StochK)

	var buy, sell tally
	if lower > 0 {
		distToLower := (price - lower) / lower * 100
		if distToLower < 0.2 {
			buy.add("at_lower_band", 40)
		}
	}
	if k < 25 {
		buy.add("oversold", 40)
	}
	if k < 20 {
		buy.add("deeply_oversold", 20)
	}

	if price > 0 {
		distToUpper := (upper - price) / price * 100
		if distToUpper < 0.2 {
			sell.add("at_upper_band", 40)
		}
	}
	if k > 75 {
		sell.add("overbought", 40)
	}
	if k > 80 {
		sell.add("deeply_overbought", 20)
	}

	return pick(models.StrategyBollingerStochastic, s.Instrument, buy, sell)
}

// rsiCCIATR trades oscillator extremes, but only while volatility stays close
// to its recent norm.
type rsiCCIATR struct{}

func (rsiCCIATR) ID() models.StrategyID    { return models.StrategyRSICCIATR }
func (rsiCCIATR) Regimes() []models.Regime { return rangingOnly }

func (rsiCCIATR) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	rsi := s.At(indicators.RSI14)
	cci := s.At(indicators.CCI14)
	atr := s.At(indicators.ATR14)
	atrAvg := s.At(indicators.ATRAvg20)

	normalVol := atrAvg > 0 && atr < atrAvg*1.3

	var buy, sell tally
	if rsi < 35 {
		buy.add("rsi_oversold", 35)
	}
	if cci < -100 {
		buy.add("cci_oversold", 35)
	}
	if normalVol {
		buy.add("normal_volatility", 30)
	}

	if rsi > 65 {
		sell.add("rsi_overbought", 35)
	}
	if cci > 100 {
		sell.add("cci_overbought", 35)
	}
	if normalVol {
		sell.add("normal_volatility", 30)
	}

	return pick(models.StrategyRSICCIATR, s.Instrument, buy, sell)
}

// meanReversion bets on a statistical snap back to the 50-bar mean once the
// z-score stretches past one standard deviation.
type meanReversion struct{}

func (meanReversion) ID() models.StrategyID    { return models.StrategyMeanReversion }
func (meanReversion) Regimes() []models.Regime { return rangingOnly }

func (meanReversion) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	mean := s.At(indicators.SMA50)
	std := s.At(indicators.Std50)

	z := 0.0
	if std > 0 {
		z = (price - mean) / std
	}

	var buy, sell tally
	if z < -1.5 {
		buy.add("stretched_below_mean", 50)
	} else if z < -1.0 {
		buy.add("below_mean_1sd", 35)
	}
	if price < mean {
		buy.add("under_mean", 30)
	}

	if z > 1.5 {
		sell.add("stretched_above_mean", 50)
	} else if z > 1.0 {
		sell.add("above_mean_1sd", 35)
	}
	if price > mean {
		sell.add("over_mean", 30)
	}

	return pick(models.StrategyMeanReversion, s.Instrument, buy, sell)
}
