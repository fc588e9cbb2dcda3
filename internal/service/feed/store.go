package feed

import (
	"sync"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
)

// maxBars caps in-memory history per (instrument, timeframe). Indicator
// lookbacks need at most a few hundred bars.
const maxBars = 500

// store holds the current candle series per (instrument, timeframe). Writers
// apply incoming frames, the engine reads immutable snapshots each cycle.
type store struct {
	mu     sync.RWMutex
	series map[seriesKey]*models.CandleSeries
}

type seriesKey struct {
	instrument string
	timeframe  string
}

func newStore() *store {
	return &store{series: make(map[seriesKey]*models.CandleSeries)}
}

// Series returns the current series, or nil if none has arrived yet. The
// returned value shares no bars slice with the store, so the engine may hold
// it across a cycle while new frames land.
func (s *store) Series(instrument string, tf domrepo.Timeframe) *models.CandleSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.series[seriesKey{instrument: instrument, timeframe: string(tf)}]
	if !ok {
		return nil
	}
	out := &models.CandleSeries{
		Instrument: cur.Instrument,
		Timeframe:  cur.Timeframe,
		Bars:       make([]models.Candle, len(cur.Bars)),
	}
	copy(out.Bars, cur.Bars)
	return out
}

// apply merges a batch of bars, newest-last. Bars at or before the current
// newest timestamp replace the tail in place (the still-forming bar updates
// repeatedly); newer bars append. History is trimmed to maxBars.
func (s *store) apply(instrument, timeframe string, bars []models.Candle) {
	if len(bars) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := seriesKey{instrument: instrument, timeframe: timeframe}
	cur, ok := s.series[key]
	if !ok {
		cur = &models.CandleSeries{Instrument: instrument, Timeframe: timeframe}
		s.series[key] = cur
	}

	for _, b := range bars {
		n := len(cur.Bars)
		if n > 0 && !b.Time.After(cur.Bars[n-1].Time) {
			if b.Time.Equal(cur.Bars[n-1].Time) {
				cur.Bars[n-1] = b
			}
			// Out-of-order bars older than the tail are dropped.
			continue
		}
		cur.Bars = append(cur.Bars, b)
	}

	if len(cur.Bars) > maxBars {
		cur.Bars = cur.Bars[len(cur.Bars)-maxBars:]
	}
}
