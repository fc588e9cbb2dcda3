package engine

import (
	"fmt"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/services/indicators"
)

// RegimeConfig holds the classification thresholds.
type RegimeConfig struct {
	// TrendADX is the ADX(14) level above which the market counts as trending.
	TrendADX float64 `yaml:"trend_adx" default:"25" validate:"gt=0"`
	// VolatileWidthRatio marks the market volatile when the Bollinger width
	// ratio exceeds its rolling average by this multiple (and ADX is below
	// TrendADX).
	VolatileWidthRatio float64 `yaml:"volatile_width_ratio" default:"1.5" validate:"gt=0"`
}

// ClassifyRegime labels the current market state from an indicator snapshot.
// It is pure; a missing input surfaces as a data-quality error, never as a
// silent default.
func ClassifyRegime(s *indicators.Snapshot, cfg RegimeConfig) (models.Regime, error) {
	adx, err := s.Value(indicators.ADX14)
	if err != nil {
		return "", fmt.Errorf("classify regime: %w", err)
	}
	width, err := s.Value(indicators.BBWidth)
	if err != nil {
		return "", fmt.Errorf("classify regime: %w", err)
	}
	widthAvg, err := s.Value(indicators.BBWidthAvg)
	if err != nil {
		return "", fmt.Errorf("classify regime: %w", err)
	}

	if adx > cfg.TrendADX {
		return models.Trending, nil
	}
	if widthAvg > 0 && width > widthAvg*cfg.VolatileWidthRatio {
		return models.Volatile, nil
	}
	return models.Ranging, nil
}
