package engine

import (
	"math"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// Energy roster: news-driven instruments favor raw price action, momentum
// with expanding volatility, and key levels.

// priceActionRSI combines an RSI extreme with candle direction and strength;
// suited to instruments that move on headlines.
type priceActionRSI struct{}

func (priceActionRSI) ID() models.StrategyID    { return models.StrategyPriceActionRSI }
func (priceActionRSI) Regimes() []models.Regime { return trendingOrRanging }

func (priceActionRSI) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	rsi := s.At(indicators.RSI14)
	close := s.At(indicators.Close)
	prevClose := s.At(indicators.PrevClose)
	sma20 := s.At(indicators.SMA20)
	body := s.At(indicators.BodyRatio)

	var buy, sell tally
	if rsi < 40 {
		buy.add("rsi_oversold", 40)
	}
	if close > prevClose {
		buy.add("bullish_candle", 30)
	}
	if body > 0.6 {
		buy.add("strong_body", 20)
	}
	if close > sma20 {
		buy.add("above_sma20", 10)
	}

	if rsi > 60 {
		sell.add("rsi_overbought", 40)
	}
	if close < prevClose {
		sell.add("bearish_candle", 30)
	}
	if body > 0.6 {
		sell.add("strong_body", 20)
	}
	if close < sma20 {
		sell.add("below_sma20", 10)
	}

	return pick(models.StrategyPriceActionRSI, s.Instrument, buy, sell)
}

// momentumVolatility rides accelerating moves while volatility expands.
type momentumVolatility struct{}

func (momentumVolatility) ID() models.StrategyID    { return models.StrategyMomentumVolatility }
func (momentumVolatility) Regimes() []models.Regime { return trendingOnly }

func (momentumVolatility) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	mom := s.At(indicators.Momentum10)
	roc := s.At(indicators.ROC10)
	atr := s.At(indicators.ATR14)
	atrAvg := s.At(indicators.ATRAvg20)

	expandingVol := atr > atrAvg

	var buy, sell tally
	if mom > 0 {
		buy.add("positive_momentum", 40)
	}
	if roc > 0.5 {
		buy.add("strong_roc", 30)
	}
	if expandingVol {
		buy.add("expanding_volatility", 30)
	}

	if mom < 0 {
		sell.add("negative_momentum", 40)
	}
	if roc < -0.5 {
		sell.add("strong_roc_down", 30)
	}
	if expandingVol {
		sell.add("expanding_volatility", 30)
	}

	return pick(models.StrategyMomentumVolatility, s.Instrument, buy, sell)
}

// supportResistance fades approaches to detected pivot levels, backed by
// volume.
type supportResistance struct{}

func (supportResistance) ID() models.StrategyID    { return models.StrategySupportResistance }
func (supportResistance) Regimes() []models.Regime { return rangingOnly }

func (supportResistance) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	vol := s.At(indicators.Volume)
	volAvg := s.At(indicators.VolumeAvg20)

	distSupport := nearestDistancePct(price, ctx.Levels.Support)
	distResistance := nearestDistancePct(price, ctx.Levels.Resistance)

	var buy, sell tally
	if distSupport >= 0 && distSupport < 0.3 {
		buy.add("at_support", 50)
	}
	if vol > volAvg*1.2 {
		buy.add("volume_expansion", 30)
	}
	if distSupport >= 0 && (distResistance < 0 || distSupport < distResistance) {
		buy.add("closer_to_support", 20)
	}

	if distResistance >= 0 && distResistance < 0.3 {
		sell.add("at_resistance", 50)
	}
	if vol > volAvg*1.2 {
		sell.add("volume_expansion", 30)
	}
	if distResistance >= 0 && (distSupport < 0 || distResistance < distSupport) {
		sell.add("closer_to_resistance", 20)
	}

	return pick(models.StrategySupportResistance, s.Instrument, buy, sell)
}

// nearestDistancePct returns the distance from price to the closest level as
// a percentage of price, or -1 when no levels exist.
func nearestDistancePct(price float64, levels []float64) float64 {
	if price <= 0 || len(levels) == 0 {
		return -1
	}
	best := -1.0
	for _, l := range levels {
		d := math.Abs(price-l) / price * 100
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
