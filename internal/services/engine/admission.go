package engine

import (
	"sync"
	"time"

	"TradeCore/internal/domain/models"
)

// SessionWindow is one active trading interval in UTC hours. Windows that
// wrap midnight (From > To) are supported.
type SessionWindow struct {
	From int `yaml:"from" validate:"min=0,max=23"`
	To   int `yaml:"to" validate:"min=0,max=24"`
}

func (w SessionWindow) contains(t time.Time) bool {
	h := t.UTC().Hour()
	if w.From <= w.To {
		return h >= w.From && h < w.To
	}
	return h >= w.From || h < w.To
}

// AdmissionConfig holds the global trade constraints.
type AdmissionConfig struct {
	Sessions          []SessionWindow `yaml:"sessions"`
	MinConfidence     float64         `yaml:"min_confidence" default:"70" validate:"gte=0,lte=100"`
	MaxConcurrent     int             `yaml:"max_concurrent" default:"3" validate:"gt=0"`
	MinMarginLevelPct float64         `yaml:"min_margin_level_pct" default:"200" validate:"gte=0"`
	DailyLossLimitPct float64         `yaml:"daily_loss_limit_pct" default:"5" validate:"gt=0"`
}

// Candidate is one instrument's fully analyzed cycle output awaiting the
// global gates. Intent is non-nil only when consensus was reached and sizing
// succeeded.
type Candidate struct {
	Instrument string
	Regime     models.Regime
	Consensus  models.ConsensusResult
	Intent     *models.TradeIntent
}

// Controller is the single admission authority. Analysis runs per instrument
// in parallel, but every admission decision inside a cycle passes through
// this controller so the concurrency cap and margin floor are checked
// against a consistent view. Accepted intents immediately count against the
// open-position view used by later candidates in the same cycle.
type Controller struct {
	cfg AdmissionConfig

	mu        sync.Mutex
	account   models.AccountState
	openCount int
	openByKey map[string]bool
}

func NewController(cfg AdmissionConfig) *Controller {
	return &Controller{cfg: cfg, openByKey: map[string]bool{}}
}

// BeginCycle installs the fresh account snapshot and open-position list for
// the coming admission decisions.
func (c *Controller) BeginCycle(account models.AccountState, open []models.OpenPosition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
	c.openCount = account.OpenPositionCount
	c.openByKey = make(map[string]bool, len(open))
	for _, p := range open {
		c.openByKey[p.Instrument] = true
	}
}

// Admit runs the fixed-precedence gate sequence and returns the decision for
// one candidate. The first failing gate names the rejection; gate order is
// part of the contract so rejection reasons stay deterministic.
func (c *Controller) Admit(cand Candidate, now time.Time) models.Decision {
	d := models.Decision{
		Instrument: cand.Instrument,
		CycleTime:  now,
		Regime:     cand.Regime,
		Consensus:  &cand.Consensus,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.inSession(now):
		d.Reason = models.OutsideSession
	case cand.Regime == models.Volatile:
		d.Reason = models.VolatileRegimeNoTrade
	case !cand.Consensus.Reached() || cand.Intent == nil:
		d.Reason = models.NoConsensus
	case cand.Consensus.AvgConfidence < c.cfg.MinConfidence:
		d.Reason = models.BelowConfidenceThreshold
	case c.openByKey[cand.Instrument]:
		d.Reason = models.PositionAlreadyOpen
	case c.openCount >= c.cfg.MaxConcurrent:
		d.Reason = models.ConcurrencyLimitReached
	// Margin level reads zero when nothing is open; the floor only
	// applies once margin is actually in use.
	case c.account.MarginLevelPct > 0 && c.account.MarginLevelPct < c.cfg.MinMarginLevelPct:
		d.Reason = models.MarginTooLow
	case c.account.DailyRealizedPnLPct <= -c.cfg.DailyLossLimitPct:
		d.Reason = models.DailyLossLimitHit
	default:
		d.Intent = cand.Intent
		c.openCount++
		c.openByKey[cand.Instrument] = true
	}
	return d
}

func (c *Controller) inSession(now time.Time) bool {
	if len(c.cfg.Sessions) == 0 {
		return true
	}
	for _, w := range c.cfg.Sessions {
		if w.contains(now) {
			return true
		}
	}
	return false
}
