package simulation

import (
	"sort"

	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Composite score weights.
var (
	scoreWeightSuccess   = decimal.NewFromFloat(0.5)
	scoreWeightStability = decimal.NewFromFloat(0.3)
	scoreWeightWealth    = decimal.NewFromFloat(0.2)

	scoreHundred = decimal.NewFromInt(100)
	scoreFifty   = decimal.NewFromInt(50)
)

// CompositeScore computes the weighted score of one strategy result against
// the given principal:
//
//	0.5*successRate + 0.3*stabilityScore + 0.2*wealthScore
//
// It is recomputed on demand rather than stored on the result, because the
// caller may re-score against an adjusted principal.
func CompositeScore(result *domain.StrategyResult, principal decimal.Decimal) decimal.Decimal {
	stability := stabilityScore(result.IncomeVolatility, result.AverageIncome)
	wealth := wealthScore(result.EndingWealthPercentiles.P50, principal)

	return result.SuccessRate.Mul(scoreWeightSuccess).
		Add(stability.Mul(scoreWeightStability)).
		Add(wealth.Mul(scoreWeightWealth))
}

// stabilityScore is 100 minus the income coefficient of variation expressed
// as a percentage. A zero average income (a policy that always withdraws
// nothing) defines the ratio as zero instead of propagating NaN.
func stabilityScore(volatility, averageIncome decimal.Decimal) decimal.Decimal {
	if averageIncome.IsZero() {
		return scoreHundred
	}
	return scoreHundred.Sub(volatility.Div(averageIncome).Mul(scoreHundred))
}

// wealthScore maps median ending wealth relative to the principal onto
// [0, 100]: 50 points at break-even, capped at 100.
func wealthScore(medianEndingWealth, principal decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() {
		return decimal.Zero
	}
	score := medianEndingWealth.Div(principal).Mul(scoreFifty)
	if score.GreaterThan(scoreHundred) {
		return scoreHundred
	}
	return score
}

// Rank scores the results against the principal and orders them best-first.
// The sort is stable, so identical scores keep their input order.
func Rank(results []*domain.StrategyResult, principal decimal.Decimal) []domain.RankedStrategy {
	ranked := make([]domain.RankedStrategy, len(results))
	for i, result := range results {
		ranked[i] = domain.RankedStrategy{
			Strategy: result.Strategy,
			Score:    CompositeScore(result, principal),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.GreaterThan(ranked[j].Score)
	})
	return ranked
}

// Recommend returns the highest-scoring strategy, or empty for no results.
func Recommend(results []*domain.StrategyResult, principal decimal.Decimal) domain.Strategy {
	ranked := Rank(results, principal)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Strategy
}
