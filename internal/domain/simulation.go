package domain

import (
	"github.com/shopspring/decimal"
)

// SimulationInput holds the user-supplied parameters for one simulation
// invocation. Values arrive pre-validated from the config layer; the engine
// still enforces the defensive invariants (positive horizon, positive run
// count) before touching them.
type SimulationInput struct {
	PortfolioBalance decimal.Decimal `yaml:"portfolio_balance" json:"portfolio_balance"`
	CurrentAge       int             `yaml:"current_age" json:"current_age"`
	RetirementAge    int             `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy   int             `yaml:"life_expectancy" json:"life_expectancy"`
	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`

	// ExpectedReturn is advisory only. The bootstrap sampler draws from
	// historical data, not from this rate.
	ExpectedReturn decimal.Decimal `yaml:"expected_return" json:"expected_return"`

	// WithdrawalRate drives the variable-percentage strategy (default 4%).
	WithdrawalRate decimal.Decimal `yaml:"withdrawal_rate" json:"withdrawal_rate"`

	NumRuns int    `yaml:"num_runs" json:"num_runs"`
	Seed    uint32 `yaml:"seed" json:"seed"`
}

// HorizonYears returns the number of simulated years.
func (si *SimulationInput) HorizonYears() int {
	return si.LifeExpectancy - si.RetirementAge
}

// YearRecord captures one simulated year of a trajectory.
// Balance is the portfolio value after the year's withdrawal and market
// return have both been applied; it is clamped at zero and never recovers
// once it gets there.
type YearRecord struct {
	Year       int             `json:"year"`
	Age        int             `json:"age"`
	Balance    decimal.Decimal `json:"balance"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	Return     decimal.Decimal `json:"return"`
}

// Trajectory is the full year-by-year outcome of a single run,
// length = horizon years.
type Trajectory []YearRecord

// EndingBalance returns the final year's portfolio value, or zero for an
// empty trajectory.
func (t Trajectory) EndingBalance() decimal.Decimal {
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].Balance
}

// Depleted reports whether the portfolio ever reached zero, and the 1-based
// year in which it first did.
func (t Trajectory) Depleted() (bool, int) {
	for _, yr := range t {
		if yr.Balance.IsZero() {
			return true, yr.Year
		}
	}
	return false, 0
}

// BucketState holds the three sub-balances of the bucket strategy. Outside
// the withdrawal/refill transition the sub-balances always sum to the
// portfolio value.
type BucketState struct {
	Cash   decimal.Decimal `json:"cash"`
	Bonds  decimal.Decimal `json:"bonds"`
	Stocks decimal.Decimal `json:"stocks"`
}

// Total returns the combined portfolio value across all three buckets.
func (b BucketState) Total() decimal.Decimal {
	return b.Cash.Add(b.Bonds).Add(b.Stocks)
}

// PercentileRanges represents the ending-wealth distribution of a strategy.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// StrategyResult aggregates all runs for one strategy. It is created once,
// after every run has completed, and is immutable thereafter.
type StrategyResult struct {
	Strategy Strategy `json:"strategy"`

	// SuccessRate is the percentage (0-100) of runs whose portfolio never
	// reached zero inside the horizon.
	SuccessRate decimal.Decimal `json:"success_rate"`

	EndingWealthPercentiles PercentileRanges `json:"ending_wealth_percentiles"`

	// Income statistics over every withdrawal from every run and year.
	AverageIncome    decimal.Decimal `json:"average_income"`
	IncomeVolatility decimal.Decimal `json:"income_volatility"`
	WorstCaseIncome  decimal.Decimal `json:"worst_case_income"`
	BestCaseIncome   decimal.Decimal `json:"best_case_income"`

	AverageYearsSurvived decimal.Decimal `json:"average_years_survived"`

	// RepresentativeTrajectory is the run whose ending wealth sits at the
	// median of the sorted ending values; retained for display.
	RepresentativeTrajectory Trajectory `json:"representative_trajectory"`

	NumRuns      int `json:"num_runs"`
	HorizonYears int `json:"horizon_years"`
}

// RankedStrategy pairs a strategy with its composite score.
type RankedStrategy struct {
	Strategy Strategy        `json:"strategy"`
	Score    decimal.Decimal `json:"score"`
}

/// SimulationOutcome is the engine's complete answer for one invocation:
// one result per strategy in canonical order, plus the ranking and the
// recommended strategy.
type SimulationOutcome struct {
	Input       *SimulationInput  `json:"input"`
	Results     []*StrategyResult `json:"results"`
	Rankings    []RankedStrategy  `json:"rankings"`
	Recommended Strategy          `json:"recommended"`
}

// ResultFor returns the result for a given strategy, or nil.
func (so *SimulationOutcome) ResultFor(s Strategy) *StrategyResult {
	for _, r := range so.Results {
		if r.Strategy == s {
			return r
		}
	}
	return nil
}
