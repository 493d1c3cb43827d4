package simulation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alitto/pond"
	"github.com/drawplan/drawplan/internal/domain"
	"golang.org/x/sync/errgroup"
)

// strategySeedStride separates the seed spaces of the five strategies so
// each gets an independent, still deterministic, run-seed sequence.
const strategySeedStride = 0x9E3779B9

// Engine orchestrates the full simulation: all five strategies, one
// aggregation each, then ranking. It holds no per-invocation state; every
// Run recomputes everything from the input.
type Engine struct {
	runner   *Runner
	numRuns  int
	parallel bool
	logger   Logger
	progress func(*domain.StrategyResult)
}

// NewEngine creates an engine over the given historical dataset.
func NewEngine(dataset *ReturnDataset) *Engine {
	return &Engine{
		runner:  NewRunner(dataset),
		numRuns: DefaultNumRuns,
		logger:  NopLogger{},
	}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.logger = NopLogger{}
		return
	}
	e.logger = l
}

// SetNumRuns overrides the per-strategy run count (default 1000).
func (e *Engine) SetNumRuns(n int) { e.numRuns = n }

// SetParallel enables concurrent execution: runs on a shared worker pool and
// the five strategies under an errgroup. Results are identical either way.
func (e *Engine) SetParallel(parallel bool) { e.parallel = parallel }

// SetProgress registers a callback invoked once per strategy, after all of
// that strategy's runs have completed. It never observes partial results.
func (e *Engine) SetProgress(f func(*domain.StrategyResult)) { e.progress = f }

// Run executes the complete simulation for one input and returns the five
// strategy results (canonical order), the ranking, and the recommendation.
func (e *Engine) Run(ctx context.Context, input *domain.SimulationInput) (*domain.SimulationOutcome, error) {
	if input == nil {
		return nil, fmt.Errorf("simulation input is nil")
	}
	if input.HorizonYears() <= 0 {
		return nil, fmt.Errorf("horizon must be positive: life expectancy %d, retirement age %d",
			input.LifeExpectancy, input.RetirementAge)
	}

	numRuns := input.NumRuns
	if numRuns <= 0 {
		numRuns = e.numRuns
	}
	if numRuns <= 0 {
		return nil, fmt.Errorf("run count must be positive, got %d", numRuns)
	}

	seed := input.Seed
	if seed == 0 {
		seed = seedFunc()
		e.logger.Debugf("no seed supplied, using %d", seed)
	}

	strategies := domain.AllStrategies()
	results := make([]*domain.StrategyResult, len(strategies))

	var pool *pond.WorkerPool
	if e.parallel {
		pool = pond.New(runtime.NumCPU(), numRuns*len(strategies))
		defer pool.StopAndWait()
	}

	aggregate := func(ctx context.Context, idx int) error {
		strategy := strategies[idx]
		aggregator := NewAggregator(e.runner)
		aggregator.NumRuns = numRuns
		aggregator.Logger = e.logger
		aggregator.SetPool(pool)

		result, err := aggregator.Aggregate(ctx, strategy, input, seed+uint32(idx)*strategySeedStride)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strategy, err)
		}
		results[idx] = result
		e.logger.Infof("strategy %s: success rate %s%%, median ending wealth %s",
			strategy, result.SuccessRate.StringFixed(1), result.EndingWealthPercentiles.P50.StringFixed(0))
		return nil
	}

	if e.parallel {
		group, gctx := errgroup.WithContext(ctx)
		for idx := range strategies {
			idx := idx
			group.Go(func() error {
				if err := aggregate(gctx, idx); err != nil {
					return err
				}
				if e.progress != nil {
					e.progress(results[idx])
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for idx := range strategies {
			if err := aggregate(ctx, idx); err != nil {
				return nil, err
			}
			if e.progress != nil {
				e.progress(results[idx])
			}
		}
	}

	rankings := Rank(results, input.PortfolioBalance)

	return &domain.SimulationOutcome{
		Input:       input,
		Results:     results,
		Rankings:    rankings,
		Recommended: rankings[0].Strategy,
	}, nil
}
