package simulation

import (
	"context"
	"fmt"
	"sort"

	"github.com/alitto/pond"
	"github.com/drawplan/drawplan/internal/domain"
	"github.com/drawplan/drawplan/pkg/stats"
	"github.com/shopspring/decimal"
)

// DefaultNumRuns is the number of independent runs aggregated per strategy.
const DefaultNumRuns = 1000

// runOutcome collects what the aggregator needs from one run before the
// trajectory is discarded.
type runOutcome struct {
	trajectory    domain.Trajectory
	endingBalance decimal.Decimal
	withdrawals   []decimal.Decimal
	failed        bool
	yearsSurvived int
}

// Aggregator executes all runs for one strategy and folds them into a
// StrategyResult. Each run derives its own seed from the base seed and run
// index, so the aggregation is reproducible end-to-end regardless of how
// runs are scheduled.
type Aggregator struct {
	Runner  *Runner
	NumRuns int
	Logger  Logger

	pool *pond.WorkerPool
}

// NewAggregator creates an aggregator with the default run count.
func NewAggregator(runner *Runner) *Aggregator {
	return &Aggregator{
		Runner:  runner,
		NumRuns: DefaultNumRuns,
		Logger:  NopLogger{},
	}
}

// SetPool attaches a worker pool; runs then execute concurrently. With a nil
// pool, runs execute sequentially on the calling goroutine.
func (a *Aggregator) SetPool(pool *pond.WorkerPool) { a.pool = pool }

// Aggregate runs NumRuns independent simulations of one strategy and
// computes the summary statistics. Cancellation is cooperative between runs;
// a canceled aggregation returns the context error, never a partial result.
func (a *Aggregator) Aggregate(ctx context.Context, strategy domain.Strategy, input *domain.SimulationInput, baseSeed uint32) (*domain.StrategyResult, error) {
	if a.NumRuns <= 0 {
		return nil, fmt.Errorf("run count must be positive, got %d", a.NumRuns)
	}
	horizon := input.HorizonYears()
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d years (life expectancy %d, retirement age %d)",
			horizon, input.LifeExpectancy, input.RetirementAge)
	}

	// Outcomes land in a pre-allocated slice indexed by run, so the final
	// statistics do not depend on completion order.
	outcomes := make([]runOutcome, a.NumRuns)

	runOne := func(runIndex int) error {
		trajectory, err := a.Runner.RunOnce(strategy, input, deriveRunSeed(baseSeed, runIndex))
		if err != nil {
			return fmt.Errorf("run %d of %s failed: %w", runIndex, strategy, err)
		}
		outcomes[runIndex] = summarizeRun(trajectory, horizon)
		return nil
	}

	if a.pool != nil {
		group, gctx := a.pool.GroupContext(ctx)
		for i := 0; i < a.NumRuns; i++ {
			i := i
			group.Submit(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return runOne(i)
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < a.NumRuns; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := runOne(i); err != nil {
				return nil, err
			}
		}
	}

	a.Logger.Debugf("aggregated %d runs for %s", a.NumRuns, strategy)
	return a.summarize(strategy, outcomes, horizon), nil
}

// summarizeRun reduces one trajectory to the per-run facts the aggregator
// keeps: ending balance, every withdrawal, and depletion.
func summarizeRun(trajectory domain.Trajectory, horizon int) runOutcome {
	withdrawals := make([]decimal.Decimal, len(trajectory))
	for i, yr := range trajectory {
		withdrawals[i] = yr.Withdrawal
	}

	failed, depletionYear := trajectory.Depleted()
	yearsSurvived := horizon
	if failed {
		yearsSurvived = depletionYear
	}

	return runOutcome{
		trajectory:    trajectory,
		endingBalance: trajectory.EndingBalance(),
		withdrawals:   withdrawals,
		failed:        failed,
		yearsSurvived: yearsSurvived,
	}
}

// summarize folds the completed runs into the immutable StrategyResult.
func (a *Aggregator) summarize(strategy domain.Strategy, outcomes []runOutcome, horizon int) *domain.StrategyResult {
	numRuns := len(outcomes)

	successes := 0
	var yearsSurvivedSum decimal.Decimal
	endings := make([]decimal.Decimal, numRuns)
	incomes := make([]decimal.Decimal, 0, numRuns*horizon)

	for i, out := range outcomes {
		if !out.failed {
			successes++
		}
		yearsSurvivedSum = yearsSurvivedSum.Add(decimal.NewFromInt(int64(out.yearsSurvived)))
		endings[i] = out.endingBalance
		incomes = append(incomes, out.withdrawals...)
	}

	// Representative trajectory: the run whose ending wealth is the median
	// of the sorted ending values.
	order := make([]int, numRuns)
	for i := range order {
		order[i] = i
	}
	sortIndicesByEnding(order, outcomes)
	representative := outcomes[order[numRuns/2]].trajectory

	sortedEndings := stats.Sort(endings)
	averageIncome := stats.Mean(incomes)
	incomeVolatility := stats.PopulationStdDev(incomes)
	sortedIncomes := stats.Sort(incomes)

	return &domain.StrategyResult{
		Strategy: strategy,
		SuccessRate: decimal.NewFromInt(int64(successes)).
			Div(decimal.NewFromInt(int64(numRuns))).
			Mul(decimal.NewFromInt(100)),
		EndingWealthPercentiles: domain.PercentileRanges{
			P10: stats.PercentileSorted(sortedEndings, 0.10),
			P25: stats.PercentileSorted(sortedEndings, 0.25),
			P50: stats.PercentileSorted(sortedEndings, 0.50),
			P75: stats.PercentileSorted(sortedEndings, 0.75),
			P90: stats.PercentileSorted(sortedEndings, 0.90),
		},
		AverageIncome:            averageIncome,
		IncomeVolatility:         incomeVolatility,
		WorstCaseIncome:          stats.PercentileSorted(sortedIncomes, 0.05),
		BestCaseIncome:           stats.PercentileSorted(sortedIncomes, 0.95),
		AverageYearsSurvived:     yearsSurvivedSum.Div(decimal.NewFromInt(int64(numRuns))),
		RepresentativeTrajectory: representative,
		NumRuns:                  numRuns,
		HorizonYears:             horizon,
	}
}

// sortIndicesByEnding orders run indices ascending by each run's own ending
// balance, ties broken by run index so the representative pick is stable.
func sortIndicesByEnding(order []int, outcomes []runOutcome) {
	sort.SliceStable(order, func(i, j int) bool {
		a, b := outcomes[order[i]].endingBalance, outcomes[order[j]].endingBalance
		if a.Equal(b) {
			return order[i] < order[j]
		}
		return a.LessThan(b)
	})
}
