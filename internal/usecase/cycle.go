package usecase

import (
	"context"
	"sync"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/internal/services/engine"
	"TradeCore/pkg/logger"
)

// Cycle drives one full evaluation tick: a consistent account snapshot,
// parallel per-instrument analysis, then admission in configured instrument
// order so the output is deterministic for identical inputs. Decisions flow
// to the audit store, the cache, and (for admitted intents) the publisher;
// sink failures are reported but never abort the cycle.
type Cycle struct {
	eval      *Evaluator
	admission *engine.Controller
	accounts  domrepo.AccountProvider
	store     domrepo.DecisionStore
	publisher domrepo.IntentPublisher
	cache     domrepo.DecisionCache
	metrics   domrepo.Metrics
	log       *logger.Logger
	symbols   []string
}

func NewCycle(
	eval *Evaluator,
	admission *engine.Controller,
	accounts domrepo.AccountProvider,
	store domrepo.DecisionStore,
	publisher domrepo.IntentPublisher,
	cache domrepo.DecisionCache,
	metrics domrepo.Metrics,
	log *logger.Logger,
	symbols []string,
) *Cycle {
	return &Cycle{
		eval:      eval,
		admission: admission,
		accounts:  accounts,
		store:     store,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
		log:       log,
		symbols:   symbols,
	}
}

type analysisResult struct {
	cand engine.Candidate
	err  error
}

// Run executes one evaluation cycle and returns the decisions made.
// Per-instrument failures are logged and skipped; only the account snapshot
// is a cycle-level failure.
func (c *Cycle) Run(ctx context.Context, now time.Time) ([]*models.Decision, error) {
	start := time.Now()

	account, open, err := c.accounts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	c.admission.BeginCycle(account, open)

	results := make([]analysisResult, len(c.symbols))
	var wg sync.WaitGroup
	for i, symbol := range c.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			cand, err := c.eval.Analyze(symbol, account.Balance)
			results[i] = analysisResult{cand: cand, err: err}
		}(i, symbol)
	}
	wg.Wait()

	decisions := make([]*models.Decision, 0, len(c.symbols))
	openCount := account.OpenPositionCount
	for i, symbol := range c.symbols {
		res := results[i]
		if res.err != nil {
			c.log.Warn("instrument evaluation failed",
				logger.String("instrument", symbol),
				logger.Error(res.err))
			c.metrics.RecordEvalError(symbol)
			continue
		}

		d := c.admission.Admit(res.cand, now)
		decisions = append(decisions, &d)

		if d.Admitted() {
			openCount++
			c.metrics.RecordDecision(symbol, "admitted")
			c.metrics.RecordLotSize(symbol, d.Intent.LotSize)
			c.log.Info("trade intent admitted",
				logger.String("instrument", symbol),
				logger.String("action", string(d.Intent.Action)),
				logger.Float64("lots", d.Intent.LotSize),
				logger.Float64("confidence", d.Intent.Confidence))
			c.publish(ctx, d.Intent)
		} else {
			c.metrics.RecordDecision(symbol, string(d.Reason))
			c.log.Debug("trade rejected",
				logger.String("instrument", symbol),
				logger.String("reason", string(d.Reason)))
		}

		if c.cache != nil {
			if err := c.cache.Put(ctx, &d); err != nil {
				c.metrics.RecordPublishError("cache")
				c.log.Warn("cache decision failed", logger.String("instrument", symbol), logger.Error(err))
			}
		}
	}

	if c.store != nil && len(decisions) > 0 {
		if err := c.store.StoreBatch(ctx, decisions); err != nil {
			c.metrics.RecordPublishError("store")
			c.log.Error("store decisions failed", logger.Error(err))
		}
	}

	c.metrics.SetOpenPositions(openCount)
	c.metrics.RecordCycleDuration(time.Since(start).Seconds())
	return decisions, nil
}

func (c *Cycle) publish(ctx context.Context, intent *models.TradeIntent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, intent); err != nil {
		c.metrics.RecordPublishError("publisher")
		c.log.Error("publish intent failed",
			logger.String("instrument", intent.Instrument),
			logger.Error(err))
	}
}
