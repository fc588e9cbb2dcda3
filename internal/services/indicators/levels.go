package indicators

import (
	"math"
	"sort"

	"TradeCore/internal/domain/models"
)

// Levels holds detected support and resistance prices, each at most three,
// weakest-first.
type Levels struct {
	Support    []float64
	Resistance []float64
}

const (
	levelLookback    = 100
	pivotWing        = 5
	clusterThreshold = 0.0005
	nearThreshold    = 0.001
)

// DetectLevels finds support/resistance from pivot highs and lows over the
// last levelLookback bars. A bar is a pivot high when its high exceeds the
// highs of the five bars on either side; pivot lows mirror that. Nearby
// levels are clustered so a zone counts once.
func DetectLevels(series *models.CandleSeries) Levels {
	if series == nil || series.Len() < 2*pivotWing+1 {
		return Levels{}
	}

	bars := series.Bars
	start := 0
	if len(bars) > levelLookback {
		start = len(bars) - levelLookback
	}
	window := bars[start:]

	var support, resistance []float64
	for i := pivotWing; i < len(window)-pivotWing; i++ {
		isHigh, isLow := true, true
		for j := i - pivotWing; j <= i+pivotWing; j++ {
			if j == i {
				continue
			}
			if window[j].High >= window[i].High {
				isHigh = false
			}
			if window[j].Low <= window[i].Low {
				isLow = false
			}
		}
		if isHigh {
			resistance = append(resistance, window[i].High)
		}
		if isLow {
			support = append(support, window[i].Low)
		}
	}

	return Levels{
		Support:    lastN(clusterLevels(support), 3),
		Resistance: lastN(clusterLevels(resistance), 3),
	}
}

// NearLevel reports whether price sits within the proximity threshold of any
// of the given levels.
func NearLevel(price float64, levels []float64) bool {
	for _, l := range levels {
		if l <= 0 {
			continue
		}
		if math.Abs(price-l)/l < nearThreshold {
			return true
		}
	}
	return false
}

func clusterLevels(levels []float64) []float64 {
	if len(levels) == 0 {
		return nil
	}
	sort.Float64s(levels)
	clustered := []float64{levels[0]}
	for _, l := range levels[1:] {
		prev := clustered[len(clustered)-1]
		if math.Abs(l-prev)/prev > clusterThreshold {
			clustered = append(clustered, l)
		}
	}
	return clustered
}

func lastN(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
