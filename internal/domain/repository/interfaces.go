package repository

import (
	"context"

	"TradeCore/internal/domain/models"
)

// CandleFeed supplies the engine with fresh candle series each cycle. The
// feed owns the data; series handed out must not be mutated by callers.
type CandleFeed interface {
	// Series returns the current candle series for one instrument and
	// timeframe, or nil if none has been received yet.
	Series(instrument string, tf Timeframe) *models.CandleSeries
}

// AccountProvider supplies one consistent AccountState snapshot and the open
// position list per cycle.
type AccountProvider interface {
	Snapshot(ctx context.Context) (models.AccountState, []models.OpenPosition, error)
}

// DecisionStore persists every decision the engine makes, admitted or not.
type DecisionStore interface {
	Store(ctx context.Context, d *models.Decision) error
	StoreBatch(ctx context.Context, ds []*models.Decision) error
}

// IntentPublisher hands admitted trade intents to the execution collaborator.
type IntentPublisher interface {
	Publish(ctx context.Context, intent *models.TradeIntent) error
	Close() error
}

// DecisionCache keeps the latest decision per instrument for the read API.
type DecisionCache interface {
	Put(ctx context.Context, d *models.Decision) error
	Latest(ctx context.Context, instrument string) (*models.Decision, error)
	All(ctx context.Context, instruments []string) ([]*models.Decision, error)
}

// Metrics records engine observability counters and timings.
type Metrics interface {
	RecordDecision(instrument, outcome string)
	RecordCycleDuration(seconds float64)
	RecordEvalError(instrument string)
	RecordLotSize(instrument string, lots float64)
	SetOpenPositions(n int)
	RecordPublishError(sink string)
}
