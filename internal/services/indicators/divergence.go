package indicators

import (
	talib "github.com/markcheno/go-talib"

	"TradeCore/internal/domain/models"
)

// Divergence labels an RSI/price disagreement.
type Divergence string

const (
	DivergenceNone    Divergence = ""
	DivergenceBullish Divergence = "bullish"
	DivergenceBearish Divergence = "bearish"
)

const divergenceSpan = 20

// DetectDivergence compares the latest bar against the bar divergenceSpan
// back: price making a higher high while RSI makes a lower high is bearish,
// price making a lower low while RSI makes a higher low is bullish.
func DetectDivergence(series *models.CandleSeries) Divergence {
	if series == nil || series.Len() < divergenceSpan+15 {
		return DivergenceNone
	}

	highs := series.Highs()
	lows := series.Lows()
	rsi := talib.Rsi(series.Closes(), 14)

	last := len(highs) - 1
	ref := last - divergenceSpan

	if highs[last] > highs[ref] && rsi[last] < rsi[ref] {
		return DivergenceBearish
	}
	if lows[last] < lows[ref] && rsi[last] > rsi[ref] {
		return DivergenceBullish
	}
	return DivergenceNone
}

// Contradicts reports whether the divergence argues against the action: a
// bearish divergence contradicts a buy, a bullish one contradicts a sell.
func (d Divergence) Contradicts(action models.Action) bool {
	switch action {
	case models.Buy:
		return d == DivergenceBearish
	case models.Sell:
		return d == DivergenceBullish
	default:
		return false
	}
}
