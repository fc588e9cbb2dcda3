package models

import "time"

// Candle is one OHLCV bar. Series are ordered oldest-first, newest-last.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleSeries is a gap-free, newest-last bar sequence for one
// (instrument, timeframe). The engine treats it as read-only.
type CandleSeries struct {
	Instrument string
	Timeframe  string
	Bars       []Candle
}

func (s *CandleSeries) Len() int { return len(s.Bars) }

// Last returns the newest bar. Callers must check Len() first.
func (s *CandleSeries) Last() Candle { return s.Bars[len(s.Bars)-1] }

// Closes extracts the close column, oldest-first.
func (s *CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Opens extracts the open column, oldest-first.
func (s *CandleSeries) Opens() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Open
	}
	return out
}

// Highs extracts the high column, oldest-first.
func (s *CandleSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column, oldest-first.
func (s *CandleSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column, oldest-first.
func (s *CandleSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
