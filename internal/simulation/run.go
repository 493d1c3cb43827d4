package simulation

import (
	"time"

	"github.com/drawplan/drawplan/internal/domain"
)

// seedFunc returns a default top-level seed for callers that do not supply
// one (override for deterministic tests).
var seedFunc = func() uint32 { return uint32(time.Now().UnixNano()) }

// SetSeedFunc overrides the default seed provider (use only in tests).
func SetSeedFunc(f func() uint32) { seedFunc = f }

// Runner executes single simulation runs against a shared, read-only
// historical dataset.
type Runner struct {
	Dataset *ReturnDataset
}

// NewRunner creates a runner over the given dataset.
func NewRunner(dataset *ReturnDataset) *Runner {
	return &Runner{Dataset: dataset}
}

// RunOnce executes one complete run: a fresh return path from a run-specific
// source, one policy application, and ages filled in from the retirement
// age. State is entirely local to the call, so runs are safe to execute
// concurrently.
func (r *Runner) RunOnce(strategy domain.Strategy, input *domain.SimulationInput, seed uint32) (domain.Trajectory, error) {
	horizon := input.HorizonYears()
	src := NewSource(seed)
	path := GenerateReturnPath(horizon, src, r.Dataset)

	params := PolicyParams{
		WithdrawalRate: input.WithdrawalRate,
		RetirementAge:  input.RetirementAge,
		LifeExpectancy: input.LifeExpectancy,
	}

	trajectory, err := ApplyStrategy(strategy, input.PortfolioBalance, horizon, input.InflationRate, path, params)
	if err != nil {
		return nil, err
	}

	for i := range trajectory {
		trajectory[i].Age = input.RetirementAge + i + 1
	}
	return trajectory, nil
}
