package engine

import (
	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// Major-pair roster: trend-following with momentum and price-action
// confirmation.

// emaRSIADX votes with the EMA(20/50) trend when RSI sits in the pullback
// zone and ADX confirms trend strength. When a higher-timeframe snapshot is
// supplied, a contradicting confirmation trend forces an abstention.
type emaRSIADX struct{}

func (emaRSIADX) ID() models.StrategyID    { return models.StrategyEMARSIADX }
func (emaRSIADX) Regimes() []models.Regime { return trendingOnly }

func (emaRSIADX) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	price := s.At(indicators.Close)
	ema20 := s.At(indicators.EMA20)
	ema50 := s.At(indicators.EMA50)
	rsi := s.At(indicators.RSI14)
	adx := s.At(indicators.ADX14)

	var buy, sell tally
	if ema20 > ema50 {
		buy.add("uptrend", 35)
		if rsi > 30 && rsi < 50 {
			buy.add("rsi_buy_zone", 30)
		}
		if adx > 20 {
			buy.add("trend_strength", 25)
		}
		if price < ema20 {
			buy.add("pullback", 10)
		}
	}
	if ema20 < ema50 {
		sell.add("downtrend", 35)
		if rsi > 50 && rsi < 70 {
			sell.add("rsi_sell_zone", 30)
		}
		if adx > 20 {
			sell.add("trend_strength", 25)
		}
		if price > ema20 {
			sell.add("pullback", 10)
		}
	}

	sig := pick(models.StrategyEMARSIADX, s.Instrument, buy, sell)
	if sig == nil || ctx.Confirm == nil {
		return sig
	}
	// Higher-timeframe veto: never trade against the confirmation trend.
	up := ctx.Confirm.At(indicators.ConfirmTrendUp) > 0
	if (sig.Action == models.Buy && !up) || (sig.Action == models.Sell && up) {
		return nil
	}
	return sig
}

// macdStochastic looks for MACD alignment with a stochastic turn out of an
// extreme. It works across trending and ranging markets.
type macdStochastic struct{}

func (macdStochastic) ID() models.StrategyID    { return models.StrategyMACDStochastic }
func (macdStochastic) Regimes() []models.Regime { return trendingOrRanging }

func (macdStochastic) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	macd := s.At(indicators.MACD)
	sigLine := s.At(indicators.MACDSignal)
	k := s.At(indicators.StochK)
	d := s.At(indicators.StochD)

	var buy, sell tally
	if macd > sigLine {
		buy.add("macd_bullish", 40)
	}
	if k < 30 && k > d {
		buy.add("stoch_turning_up", 40)
	}
	if k < 20 {
		buy.add("oversold", 20)
	}

	if macd < sigLine {
		sell.add("macd_bearish", 40)
	}
	if k > 70 && k < d {
		sell.add("stoch_turning_down", 40)
	}
	if k > 80 {
		sell.add("overbought", 20)
	}

	return pick(models.StrategyMACDStochastic, s.Instrument, buy, sell)
}

// priceActionVolume reads pure price movement: candle direction, proximity to
// the 20-bar extreme, volume expansion, and body strength.
type priceActionVolume struct{}

func (priceActionVolume) ID() models.StrategyID    { return models.StrategyPriceActionVolume }
func (priceActionVolume) Regimes() []models.Regime { return trendingOnly }

func (priceActionVolume) Evaluate(ctx EvalContext) *models.StrategySignal {
	s := ctx.Snapshot
	close := s.At(indicators.Close)
	prevClose := s.At(indicators.PrevClose)
	recentHigh := s.At(indicators.RecentHigh20)
	recentLow := s.At(indicators.RecentLow20)
	vol := s.At(indicators.Volume)
	volAvg := s.At(indicators.VolumeAvg20)
	body := s.At(indicators.BodyRatio)

	var buy, sell tally
	if close > prevClose {
		buy.add("bullish_candle", 25)
	}
	if close > recentHigh*0.995 {
		buy.add("near_recent_high", 25)
	}
	if vol > volAvg*1.2 {
		buy.add("volume_expansion", 25)
	}
	if body > 0.6 {
		buy.add("strong_body", 25)
	}

	if close < prevClose {
		sell.add("bearish_candle", 25)
	}
	if close < recentLow*1.005 {
		sell.add("near_recent_low", 25)
	}
	if vol > volAvg*1.2 {
		sell.add("volume_expansion", 25)
	}
	if body > 0.6 {
		sell.add("strong_body", 25)
	}

	return pick(models.StrategyPriceActionVolume, s.Instrument, buy, sell)
}
