package indicators

import (
	"errors"
	"fmt"
	"math"

	talib "github.com/markcheno/go-talib"

	"TradeCore/internal/domain/models"
)

var (
	// ErrInsufficientHistory means the candle series is too short for the
	// configured lookbacks. The affected instrument's cycle fails locally.
	ErrInsufficientHistory = errors.New("indicators: insufficient candle history")

	// ErrMissingIndicator means a consumer asked for an indicator the
	// snapshot does not carry.
	ErrMissingIndicator = errors.New("indicators: missing indicator")
)

// MinPrimaryBars is the history needed for the full primary snapshot
// (EMA 200 plus its smoothing warmup dominates).
const MinPrimaryBars = 200

// MinConfirmBars is the history needed for a higher-timeframe trend snapshot.
const MinConfirmBars = 60

// Snapshot maps indicator names to their latest computed scalar for one
// instrument. It is built fresh each cycle and immutable afterwards.
type Snapshot struct {
	Instrument string
	values     map[string]float64
}

// Value returns a named scalar or ErrMissingIndicator. Used where a missing
// input must surface as a data-quality error (regime classification).
func (s *Snapshot) Value(name string) (float64, error) {
	v, ok := s.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingIndicator, name)
	}
	return v, nil
}

// At returns a named scalar. The builder guarantees every published name is
// present and finite, so strategies may read without an error path.
func (s *Snapshot) At(name string) float64 { return s.values[name] }

// Has reports whether the snapshot carries the named scalar.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names published by BuildSnapshot.
const (
	Close     = "close"
	PrevClose = "prev_close"
	Open      = "open"
	High      = "high"
	Low       = "low"
	Volume    = "volume"

	EMA9      = "ema_9"
	PrevEMA9  = "prev_ema_9"
	EMA20     = "ema_20"
	EMA21     = "ema_21"
	PrevEMA21 = "prev_ema_21"
	EMA50     = "ema_50"
	EMA200    = "ema_200"

	SMA20 = "sma_20"
	SMA50 = "sma_50"
	Std50 = "std_50"

	RSI14    = "rsi_14"
	ADX14    = "adx_14"
	ATR14    = "atr_14"
	ATRAvg20 = "atr_avg_20"

	BBUpper    = "bb_upper"
	BBMiddle   = "bb_middle"
	BBLower    = "bb_lower"
	BBWidth    = "bb_width_ratio"
	BBWidthAvg = "bb_width_avg"

	MACD       = "macd"
	MACDSignal = "macd_signal"

	StochK = "stoch_k"
	StochD = "stoch_d"

	CCI14 = "cci_14"

	Momentum10 = "momentum_10"
	ROC10      = "roc_10"

	VolumeAvg20 = "volume_avg_20"
	BodyRatio   = "body_ratio"

	RecentHigh20     = "recent_high_20"
	RecentLow20      = "recent_low_20"
	PrevHigh         = "prev_high"
	PrevLow          = "prev_low"
	PrevDonchianHigh = "prev_donchian_high"
	PrevDonchianLow  = "prev_donchian_low"
)

// Confirmation snapshot names (higher timeframe).
const (
	ConfirmTrendUp = "confirm_trend_up" // 1 bullish, 0 bearish
)

// BuildSnapshot derives the full indicator snapshot from a primary-timeframe
// candle series. It is pure: identical input yields identical output.
func BuildSnapshot(series *models.CandleSeries) (*Snapshot, error) {
	if series == nil || series.Len() < MinPrimaryBars {
		n := 0
		if series != nil {
			n = series.Len()
		}
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientHistory, n, MinPrimaryBars)
	}

	closes := series.Closes()
	opens := series.Opens()
	highs := series.Highs()
	lows := series.Lows()
	vols := series.Volumes()
	n := len(closes)

	ema9 := talib.Ema(closes, 9)
	ema20 := talib.Ema(closes, 20)
	ema21 := talib.Ema(closes, 21)
	ema50 := talib.Ema(closes, 50)
	ema200 := talib.Ema(closes, 200)

	sma20 := talib.Sma(closes, 20)
	sma50 := talib.Sma(closes, 50)
	std50 := talib.StdDev(closes, 50, 1.0)

	rsi14 := talib.Rsi(closes, 14)
	adx14 := talib.Adx(highs, lows, closes, 14)
	atr14 := talib.Atr(highs, lows, closes, 14)
	atrAvg := talib.Sma(atr14, 20)

	bbUp, bbMid, bbLow := talib.BBands(closes, 20, 2.0, 2.0, talib.SMA)
	macd, macdSig, _ := talib.Macd(closes, 12, 26, 9)
	stochK, stochD := talib.Stoch(highs, lows, closes, 14, 3, talib.SMA, 3, talib.SMA)
	cci14 := talib.Cci(highs, lows, closes, 14)
	mom10 := talib.Mom(closes, 10)
	roc10 := talib.Roc(closes, 10)
	volAvg := talib.Sma(vols, 20)
	donHigh := talib.Max(highs, 20)
	donLow := talib.Min(lows, 20)

	// Bollinger width ratio and its average, computed over the full series so
	// "wide relative to normal" is meaningful.
	bbWidth := make([]float64, n)
	for i := range bbWidth {
		if bbMid[i] != 0 {
			bbWidth[i] = (bbUp[i] - bbLow[i]) / bbMid[i]
		}
	}
	bbWidthAvg := talib.Sma(bbWidth, 50)

	last := n - 1
	prev := n - 2

	body := math.Abs(closes[last] - opens[last])
	candleRange := highs[last] - lows[last]
	bodyRatio := 0.0
	if candleRange > 0 {
		bodyRatio = body / candleRange
	}

	s := &Snapshot{
		Instrument: series.Instrument,
		values:     make(map[string]float64, 48),
	}
	put := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("indicators: %s is not finite for %s", name, series.Instrument)
		}
		s.values[name] = v
		return nil
	}

	pairs := []struct {
		name string
		v    float64
	}{
		{Close, closes[last]}, {PrevClose, closes[prev]},
		{Open, opens[last]}, {High, highs[last]}, {Low, lows[last]}, {Volume, vols[last]},
		{EMA9, ema9[last]}, {PrevEMA9, ema9[prev]},
		{EMA20, ema20[last]},
		{EMA21, ema21[last]}, {PrevEMA21, ema21[prev]},
		{EMA50, ema50[last]}, {EMA200, ema200[last]},
		{SMA20, sma20[last]}, {SMA50, sma50[last]}, {Std50, std50[last]},
		{RSI14, rsi14[last]}, {ADX14, adx14[last]},
		{ATR14, atr14[last]}, {ATRAvg20, atrAvg[last]},
		{BBUpper, bbUp[last]}, {BBMiddle, bbMid[last]}, {BBLower, bbLow[last]},
		{BBWidth, bbWidth[last]}, {BBWidthAvg, bbWidthAvg[last]},
		{MACD, macd[last]}, {MACDSignal, macdSig[last]},
		{StochK, stochK[last]}, {StochD, stochD[last]},
		{CCI14, cci14[last]},
		{Momentum10, mom10[last]}, {ROC10, roc10[last]},
		{VolumeAvg20, volAvg[last]}, {BodyRatio, bodyRatio},
		{RecentHigh20, donHigh[last]}, {RecentLow20, donLow[last]},
		{PrevHigh, highs[prev]}, {PrevLow, lows[prev]},
		{PrevDonchianHigh, donHigh[prev]}, {PrevDonchianLow, donLow[prev]},
	}
	for _, p := range pairs {
		if err := put(p.name, p.v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BuildConfirm derives a higher-timeframe trend snapshot. With 200+ bars the
// trend is the EMA50/EMA200 relation; with fewer it falls back to close vs
// EMA50, matching single-timeframe behavior when deep history is unavailable.
func BuildConfirm(series *models.CandleSeries) (*Snapshot, error) {
	if series == nil || series.Len() < MinConfirmBars {
		n := 0
		if series != nil {
			n = series.Len()
		}
		return nil, fmt.Errorf("%w: have %d confirm bars, need %d", ErrInsufficientHistory, n, MinConfirmBars)
	}

	closes := series.Closes()
	last := len(closes) - 1

	ema50 := talib.Ema(closes, 50)
	up := closes[last] > ema50[last]
	if len(closes) >= 200 {
		ema200 := talib.Ema(closes, 200)
		up = ema50[last] > ema200[last]
	}

	s := &Snapshot{Instrument: series.Instrument, values: make(map[string]float64, 2)}
	if up {
		s.values[ConfirmTrendUp] = 1
	} else {
		s.values[ConfirmTrendUp] = 0
	}
	return s, nil
}

// NewSnapshot builds a snapshot directly from named values. Intended for
// tests and for callers that already have computed indicators.
func NewSnapshot(instrument string, values map[string]float64) *Snapshot {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Snapshot{Instrument: instrument, values: cp}
}
