package engine

import (
	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// Metal roster: long-horizon trend alignment, ADX momentum, and channel
// breakouts.

// emaMACDATR follows the EMA(50/200) trend with MACD confirmation while
// volatility stays sane.
type emaMACDATR struct{}

func (emaMACDATR) ID() models.StrategyID    { return models.StrategyEMAMACDATR }
func (emaMACDATR) Regimes() []models.Regime { return trendingOnly }

func (emaMACDATR) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	ema50 := s.At(indicators.EMA50)
	ema200 := s.At(indicators.EMA200)
	macd := s.At(indicators.MACD)
	sigLine := s.At(indicators.MACDSignal)
	atr := s.At(indicators.ATR14)
	atrAvg := s.At(indicators.ATRAvg20)

	normalVol := atrAvg > 0 && atr < atrAvg*1.5

	var buy, sell tally
	if ema50 > ema200 {
		buy.add("long_term_uptrend", 35)
	}
	if macd > sigLine {
		buy.add("macd_bullish", 35)
	}
	if price > ema50 {
		buy.add("above_ema50", 20)
	}
	if normalVol {
		buy.add("normal_volatility", 10)
	}

	if ema50 < ema200 {
		sell.add("long_term_downtrend", 35)
	}
	if macd < sigLine {
		sell.add("macd_bearish", 35)
	}
	if price < ema50 {
		sell.add("below_ema50", 20)
	}
	if normalVol {
		sell.add("normal_volatility", 10)
	}

	return pick(models.StrategyEMAMACDATR, s.Instrument, buy, sell)
}

// trendMomentum pairs ADX trend strength with raw 10-bar momentum and a
// neutral RSI band so entries are not chased into extremes.
type trendMomentum struct{}

func (trendMomentum) ID() models.StrategyID    { return models.StrategyTrendMomentum }
func (trendMomentum) Regimes() []models.Regime { return trendingOnly }

func (trendMomentum) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	adx := s.At(indicators.ADX14)
	mom := s.At(indicators.Momentum10)
	rsi := s.At(indicators.RSI14)

	neutralRSI := rsi > 40 && rsi < 60

	var buy, sell tally
	if adx > 25 {
		buy.add("strong_trend", 35)
	}
	if mom > 0 {
		buy.add("positive_momentum", 35)
	}
	if neutralRSI {
		buy.add("neutral_rsi", 30)
	}

	if adx > 25 {
		sell.add("strong_trend", 35)
	}
	if mom < 0 {
		sell.add("negative_momentum", 35)
	}
	if neutralRSI {
		sell.add("neutral_rsi", 30)
	}

	return pick(models.StrategyTrendMomentum, s.Instrument, buy, sell)
}

// breakoutSystem trades fresh pushes through the prior 20-bar Donchian
// channel, preferring volume-backed breaks.
type breakoutSystem struct{}

func (breakoutSystem) ID() models.StrategyID    { return models.StrategyBreakoutSystem }
func (breakoutSystem) Regimes() []models.Regime { return trendingOnly }

func (breakoutSystem) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	upper := s.At(indicators.PrevDonchianHigh)
	lower := s.At(indicators.PrevDonchianLow)
	vol := s.At(indicators.Volume)
	volAvg := s.At(indicators.VolumeAvg20)

	var buy, sell tally
	if price > upper {
		buy.add("channel_breakout", 50)
	}
	if vol > volAvg*1.3 {
		buy.add("volume_expansion", 30)
	}
	if upper > 0 && price > upper*0.999 {
		buy.add("pressing_channel", 20)
	}

	if price < lower {
		sell.add("channel_breakdown", 50)
	}
	if vol > volAvg*1.3 {
		sell.add("volume_expansion", 30)
	}
	if lower > 0 && price < lower*1.001 {
		sell.add("pressing_channel", 20)
	}

	return pick(models.StrategyBreakoutSystem, s.Instrument, buy, sell)
}
