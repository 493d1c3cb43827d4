package simulation

import (
	"fmt"

	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Policy constants. The guardrail bands and bucket refill parameters are
// fixed configuration values, not analytically derived.
var (
	baseWithdrawalRate = decimal.NewFromFloat(0.04)

	guardrailUpperRate   = decimal.NewFromFloat(0.05) // cut above this withdrawal rate
	guardrailLowerRate   = decimal.NewFromFloat(0.03) // raise below this withdrawal rate
	guardrailPeakFloor   = decimal.NewFromFloat(0.80) // portfolio below 80% of peak
	guardrailPeakCeiling = decimal.NewFromFloat(1.20) // portfolio above 120% of peak
	guardrailAdjustment  = decimal.NewFromFloat(0.10) // 10% cut or raise
	guardrailFloorRate   = decimal.NewFromFloat(0.03) // hard floor, share of initial
	guardrailCeilingRate = decimal.NewFromFloat(0.06) // hard ceiling, share of initial

	bucketCashYears       = decimal.NewFromFloat(2.5)
	bucketBondYears       = decimal.NewFromFloat(6)
	bucketBondReturn      = decimal.NewFromFloat(0.045)
	bucketCashReturn      = decimal.NewFromFloat(0.025)
	bucketRefillThreshold = decimal.NewFromFloat(0.05) // stock return must exceed this
	bucketRefillFraction  = decimal.NewFromFloat(0.10) // of stock balance, per bucket, per year

	actuarialMinRate = decimal.NewFromFloat(0.03)
	actuarialMaxRate = decimal.NewFromFloat(0.08)

	one = decimal.NewFromInt(1)
)

// PolicyParams carries the strategy-specific inputs beyond the shared
// (initial portfolio, horizon, inflation, return path) arguments.
type PolicyParams struct {
	WithdrawalRate decimal.Decimal // variable-percentage rate; zero means the 4% default
	RetirementAge  int             // dynamic-actuarial age tracking
	LifeExpectancy int             // dynamic-actuarial remaining-life computation
}

// ApplyStrategy runs one withdrawal strategy over a return path and produces
// the year-by-year trajectory. Every strategy follows the same per-year
// pattern: determine the intended withdrawal, take min(intended, portfolio),
// apply the year's market return to the remainder, record, then update any
// carried state for next year.
func ApplyStrategy(strategy domain.Strategy, initial decimal.Decimal, horizon int, inflation decimal.Decimal, path []decimal.Decimal, params PolicyParams) (domain.Trajectory, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(path) < horizon {
		return nil, fmt.Errorf("return path has %d years, need %d", len(path), horizon)
	}

	switch strategy {
	case domain.StrategyFixedReal:
		return applyFixedReal(initial, horizon, inflation, path), nil
	case domain.StrategyVariablePercentage:
		return applyVariablePercentage(initial, horizon, path, params), nil
	case domain.StrategyGuardrails:
		return applyGuardrails(initial, horizon, inflation, path), nil
	case domain.StrategyBucket:
		return applyBucket(initial, horizon, inflation, path), nil
	case domain.StrategyDynamicActuarial:
		return applyDynamicActuarial(initial, horizon, path, params), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// settleYear applies one year's withdrawal and market return. The actual
// withdrawal may be less than intended once the portfolio is exhausted;
// the balance is clamped at zero and a zero balance stays zero.
func settleYear(balance, intended, marketReturn decimal.Decimal) (newBalance, actual decimal.Decimal) {
	actual = intended
	if actual.GreaterThan(balance) {
		actual = balance
	}
	newBalance = balance.Sub(actual).Mul(one.Add(marketReturn))
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	return newBalance, actual
}

// applyFixedReal implements the classic 4% rule: the first-year withdrawal
// is 4% of the initial portfolio and the intended amount grows with
// inflation every year regardless of portfolio performance.
func applyFixedReal(initial decimal.Decimal, horizon int, inflation decimal.Decimal, path []decimal.Decimal) domain.Trajectory {
	trajectory := make(domain.Trajectory, 0, horizon)
	balance := initial
	intended := initial.Mul(baseWithdrawalRate)
	inflationFactor := one.Add(inflation)

	for year := 0; year < horizon; year++ {
		newBalance, actual := settleYear(balance, intended, path[year])
		balance = newBalance
		trajectory = append(trajectory, domain.YearRecord{
			Year:       year + 1,
			Balance:    balance,
			Withdrawal: actual,
			Return:     path[year],
		})
		intended = intended.Mul(inflationFactor)
	}
	return trajectory
}

// applyVariablePercentage withdraws a fixed share of the current portfolio
// each year. Purely path-reactive; there is no inflation adjustment term.
func applyVariablePercentage(initial decimal.Decimal, horizon int, path []decimal.Decimal, params PolicyParams) domain.Trajectory {
	rate := params.WithdrawalRate
	if !rate.IsPositive() {
		rate = baseWithdrawalRate
	}

	trajectory := make(domain.Trajectory, 0, horizon)
	balance := initial

	for year := 0; year < horizon; year++ {
		intended := balance.Mul(rate)
		newBalance, actual := settleYear(balance, intended, path[year])
		balance = newBalance
		trajectory = append(trajectory, domain.YearRecord{
			Year:       year + 1,
			Balance:    balance,
			Withdrawal: actual,
			Return:     path[year],
		})
	}
	return trajectory
}

// applyDynamicActuarial recomputes the withdrawal rate each year from the
// remaining life expectancy: rate = 1 / (remainingYears + 2), clamped to
// [3%, 8%]. There is no explicit inflation term; the rate itself rises as
// the horizon shrinks.
func applyDynamicActuarial(initial decimal.Decimal, horizon int, path []decimal.Decimal, params PolicyParams) domain.Trajectory {
	trajectory := make(domain.Trajectory, 0, horizon)
	balance := initial

	for year := 0; year < horizon; year++ {
		age := params.RetirementAge + year + 1
		rate := actuarialRate(params.LifeExpectancy - age)
		intended := balance.Mul(rate)
		newBalance, actual := settleYear(balance, intended, path[year])
		balance = newBalance
		trajectory = append(trajectory, domain.YearRecord{
			Year:       year + 1,
			Age:        age,
			Balance:    balance,
			Withdrawal: actual,
			Return:     path[year],
		})
	}
	return trajectory
}

// actuarialRate computes 1/(remainingLifeYears+2) clamped to [3%, 8%].
// At or past the life-expectancy age the rate pins to the ceiling rather
// than dividing by zero or going negative.
func actuarialRate(remainingLifeYears int) decimal.Decimal {
	denominator := remainingLifeYears + 2
	if denominator <= 0 {
		return actuarialMaxRate
	}
	rate := one.Div(decimal.NewFromInt(int64(denominator)))
	if rate.GreaterThan(actuarialMaxRate) {
		return actuarialMaxRate
	}
	if rate.LessThan(actuarialMinRate) {
		return actuarialMinRate
	}
	return rate
}
