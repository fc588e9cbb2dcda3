package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"TradeCore/internal/domain/models"
	pkgch "TradeCore/pkg/clickhouse"
)

// CHDecisionStore persists the full decision audit trail to ClickHouse:
// admitted intents and rejections alike, one row per (instrument, cycle).
type CHDecisionStore struct {
	db    *sql.DB
	table string
}

func NewCHDecisionStore(ch *pkgch.Client, table string) *CHDecisionStore {
	if table == "" {
		table = "decisions"
	}
	return &CHDecisionStore{db: ch.DB(), table: table}
}

// Init creates the decisions table if it does not exist.
func (s *CHDecisionStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ts             DateTime,
            instrument     LowCardinality(String),
            regime         LowCardinality(String),
            outcome        LowCardinality(String),
            action         LowCardinality(String),
            lot_size       Float64,
            entry_price    Float64,
            sl_price       Float64,
            tp_price       Float64,
            sl_pips        Float64,
            tp_pips        Float64,
            confidence     Float64,
            commission     Float64,
            votes_for      UInt8,
            votes_against  UInt8
        ) ENGINE = MergeTree()
        ORDER BY (instrument, ts)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init decisions table: %w", err)
	}
	return nil
}

func (s *CHDecisionStore) Store(ctx context.Context, d *models.Decision) error {
	return s.StoreBatch(ctx, []*models.Decision{d})
}

func (s *CHDecisionStore) StoreBatch(ctx context.Context, ds []*models.Decision) error {
	if len(ds) == 0 {
		return nil
	}

	values := make([]string, 0, len(ds))
	args := make([]interface{}, 0, len(ds)*15)
	for _, d := range ds {
		if d == nil || d.Instrument == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, decisionRow(d)...)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (ts, instrument, regime, outcome, action, lot_size, entry_price, sl_price, tp_price, sl_pips, tp_pips, confidence, commission, votes_for, votes_against) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store decisions: %w", err)
	}
	return nil
}

func decisionRow(d *models.Decision) []interface{} {
	outcome := string(d.Reason)
	if d.Admitted() {
		outcome = "admitted"
	}

	var action string
	var lots, entry, sl, tp, slPips, tpPips, confidence, commission float64
	if in := d.Intent; in != nil {
		action = string(in.Action)
		lots = in.LotSize
		entry = in.EntryPrice
		sl = in.StopLossPrice
		tp = in.TakeProfitPrice
		slPips = in.StopLossPips
		tpPips = in.TakeProfitPips
		confidence = in.Confidence
		commission = in.Commission
	}

	var votesFor, votesAgainst uint8
	if c := d.Consensus; c != nil {
		votesFor = uint8(c.VotesFor)
		votesAgainst = uint8(c.VotesAgainst)
		if confidence == 0 {
			confidence = c.AvgConfidence
		}
	}

	return []interface{}{
		d.CycleTime,
		d.Instrument,
		string(d.Regime),
		outcome,
		action,
		lots,
		entry,
		sl,
		tp,
		slPips,
		tpPips,
		confidence,
		commission,
		votesFor,
		votesAgainst,
	}
}

func (s *CHDecisionStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
