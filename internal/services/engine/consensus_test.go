package engine

import (
	"testing"

	"TradeCore/internal/domain/models"
)

func vote(id models.StrategyID, action models.Action, conf float64) *models.StrategySignal {
	return &models.StrategySignal{
		Strategy:       id,
		Instrument:     "EURUSD",
		Action:         action,
		BaseConfidence: conf,
		Factors:        []models.Factor{{Name: "test", Points: conf}},
	}
}

func TestAggregateTieYieldsNoConsensus(t *testing.T) {
	signals := []*models.StrategySignal{
		vote(models.StrategyEMARSIADX, models.Buy, 65),
		vote(models.StrategyMACDStochastic, models.Sell, 60),
		nil,
	}
	res := Aggregate("EURUSD", signals, 2)
	if res.Reached() {
		t.Fatalf("expected no consensus, got %s", res.Action)
	}
	if res.VotesFor != 1 || res.VotesAgainst != 1 {
		t.Fatalf("unexpected tally %d/%d", res.VotesFor, res.VotesAgainst)
	}
}

func TestAggregateQuorumSatisfied(t *testing.T) {
	signals := []*models.StrategySignal{
		vote(models.StrategyEMARSIADX, models.Buy, 65),
		vote(models.StrategyMACDStochastic, models.Buy, 70),
		nil,
	}
	res := Aggregate("EURUSD", signals, 2)
	if !res.Reached() || res.Action != models.Buy {
		t.Fatalf("expected buy consensus, got %+v", res)
	}
	if res.AvgConfidence != 67.5 {
		t.Fatalf("expected averaged confidence 67.5, got %v", res.AvgConfidence)
	}
	if res.VotesFor != 2 || res.VotesAgainst != 0 {
		t.Fatalf("unexpected tally %d/%d", res.VotesFor, res.VotesAgainst)
	}
	if len(res.Members) != 2 {
		t.Fatalf("expected 2 member signals, got %d", len(res.Members))
	}
}

func TestAggregateSubQuorum(t *testing.T) {
	signals := []*models.StrategySignal{
		vote(models.StrategyEMARSIADX, models.Buy, 80),
		nil,
		nil,
	}
	res := Aggregate("EURUSD", signals, 2)
	if res.Reached() {
		t.Fatalf("expected no consensus below quorum, got %s", res.Action)
	}
	if res.VotesFor != 1 {
		t.Fatalf("expected raw tally preserved, got %d", res.VotesFor)
	}
}

func TestAggregateAllAbstain(t *testing.T) {
	res := Aggregate("EURUSD", []*models.StrategySignal{nil, nil, nil}, 2)
	if res.Reached() {
		t.Fatalf("expected no consensus with all abstentions")
	}
	if res.VotesFor != 0 || res.VotesAgainst != 0 {
		t.Fatalf("unexpected tally %d/%d", res.VotesFor, res.VotesAgainst)
	}
}

func TestAggregateEqualVotesAboveQuorum(t *testing.T) {
	signals := []*models.StrategySignal{
		vote(models.StrategyEMARSIADX, models.Buy, 70),
		vote(models.StrategyMACDStochastic, models.Buy, 70),
		vote(models.StrategyPriceActionVolume, models.Sell, 70),
		vote(models.StrategyMeanReversion, models.Sell, 70),
	}
	res := Aggregate("EURUSD", signals, 2)
	if res.Reached() {
		t.Fatalf("2v2 split must not reach consensus, got %s", res.Action)
	}
}

func TestAggregateMonotonicity(t *testing.T) {
	base := []*models.StrategySignal{
		vote(models.StrategyEMARSIADX, models.Buy, 70),
		vote(models.StrategyMACDStochastic, models.Buy, 70),
		vote(models.StrategyPriceActionVolume, models.Sell, 70),
		nil,
	}
	before := Aggregate("EURUSD", base, 2)

	flipped := append([]*models.StrategySignal(nil), base...)
	flipped[3] = vote(models.StrategyMeanReversion, models.Buy, 70)
	after := Aggregate("EURUSD", flipped, 2)

	marginBefore := before.VotesFor - before.VotesAgainst
	marginAfter := after.VotesFor - after.VotesAgainst
	if marginAfter < marginBefore {
		t.Fatalf("winning margin decreased: %d -> %d", marginBefore, marginAfter)
	}
}

func TestAggregateSingleStrategyMode(t *testing.T) {
	res := Aggregate("EURUSD", []*models.StrategySignal{vote(models.StrategyEMARSIADX, models.Sell, 75)}, 1)
	if !res.Reached() || res.Action != models.Sell {
		t.Fatalf("roster of 1 with quorum 1 should pass through, got %+v", res)
	}
	if res.AvgConfidence != 75 {
		t.Fatalf("unexpected confidence %v", res.AvgConfidence)
	}
}
