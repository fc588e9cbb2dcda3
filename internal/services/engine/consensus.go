package engine

import "TradeCore/internal/domain/models"

// Aggregate tallies strategy votes for one instrument and applies the
// quorum rule. Abstentions (nil entries) are ignored. The winning action
// needs strictly more votes than the opposing one and at least quorum
// votes; a tie or a sub-quorum tally yields a result whose Reached method
// reports false, carrying the raw counts for reporting.
func Aggregate(instrument string, signals []*models.StrategySignal, quorum int) models.ConsensusResult {
	res := models.ConsensusResult{
		Instrument:      instrument,
		TotalStrategies: len(signals),
		Quorum:          quorum,
	}

	var buys, sells []*models.StrategySignal
	for _, sig := range signals {
		if sig == nil {
			continue
		}
		switch sig.Action {
		case models.Buy:
			buys = append(buys, sig)
		case models.Sell:
			sells = append(sells, sig)
		}
	}

	var winners []*models.StrategySignal
	switch {
	case len(buys) > len(sells):
		res.Action = models.Buy
		res.VotesFor = len(buys)
		res.VotesAgainst = len(sells)
		winners = buys
	case len(sells) > len(buys):
		res.Action = models.Sell
		res.VotesFor = len(sells)
		res.VotesAgainst = len(buys)
		winners = sells
	default:
		// Tie, including the zero-vote case. No consensus.
		res.VotesFor = len(buys)
		res.VotesAgainst = len(sells)
		return res
	}

	if res.VotesFor < quorum {
		res.Action = ""
		return res
	}

	var sum float64
	for _, sig := range winners {
		sum += sig.BaseConfidence
	}
	res.AvgConfidence = sum / float64(len(winners))
	res.Members = winners
	return res
}
