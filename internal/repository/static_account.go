package repository

import (
	"context"
	"sync"
	"time"

	"TradeCore/internal/domain/models"
)

// StaticAccount is the default paper account provider. It reports a flat
// account anchored at the configured balance, tracks the day-open equity so
// DailyRealizedPnLPct is meaningful, and lets the execution collaborator (or
// tests) feed state back through Update.
type StaticAccount struct {
	mu         sync.Mutex
	state      models.AccountState
	open       []models.OpenPosition
	dayAnchor  float64
	anchorDate time.Time
	now        func() time.Time
}

func NewStaticAccount(initialBalance float64) *StaticAccount {
	return &StaticAccount{
		state: models.AccountState{
			Balance: initialBalance,
			Equity:  initialBalance,
		},
		dayAnchor: initialBalance,
		now:       time.Now,
	}
}

// Snapshot returns a consistent copy of the account state with the daily
// realized P&L recomputed against the day-open equity anchor.
func (a *StaticAccount) Snapshot(ctx context.Context) (models.AccountState, []models.OpenPosition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollAnchor()
	st := a.state
	if a.dayAnchor > 0 {
		st.DailyRealizedPnLPct = (a.state.Equity - a.dayAnchor) / a.dayAnchor * 100
	}
	st.OpenPositionCount = len(a.open)

	open := make([]models.OpenPosition, len(a.open))
	copy(open, a.open)
	return st, open, nil
}

// Update replaces the account view. The execution collaborator calls this
// after fills and closes.
func (a *StaticAccount) Update(state models.AccountState, open []models.OpenPosition) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = state
	a.open = make([]models.OpenPosition, len(open))
	copy(a.open, open)
}

// rollAnchor resets the day-open equity at the first snapshot of a new UTC day.
func (a *StaticAccount) rollAnchor() {
	today := a.now().UTC().Truncate(24 * time.Hour)
	if !today.Equal(a.anchorDate) {
		a.anchorDate = today
		a.dayAnchor = a.state.Equity
	}
}
