package output

import (
	"bytes"
	"fmt"

	"github.com/drawplan/drawplan/internal/domain"
)

// ConsoleFormatter renders a concise strategy comparison for the terminal:
// one block per strategy in ranked order, then the recommendation and a
// sample of the recommended strategy's representative trajectory.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(outcome *domain.SimulationOutcome) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "WITHDRAWAL STRATEGY COMPARISON")
	fmt.Fprintln(&buf, "==============================")
	fmt.Fprintf(&buf, "Portfolio: %s  Horizon: %d years  Runs per strategy: %d\n",
		FormatCurrency(outcome.Input.PortfolioBalance),
		outcome.Input.HorizonYears(),
		outcome.Input.NumRuns)
	fmt.Fprintln(&buf)

	for rank, rs := range outcome.Rankings {
		result := outcome.ResultFor(rs.Strategy)
		if result == nil {
			continue
		}
		fmt.Fprintf(&buf, "%d. %s (score %s)\n", rank+1, rs.Strategy.DisplayName(), rs.Score.StringFixed(1))
		fmt.Fprintf(&buf, "   Success=%s  MedianEnd=%s  P10=%s  P90=%s\n",
			FormatPercentage(result.SuccessRate),
			FormatCurrency(result.EndingWealthPercentiles.P50),
			FormatCurrency(result.EndingWealthPercentiles.P10),
			FormatCurrency(result.EndingWealthPercentiles.P90),
		)
		fmt.Fprintf(&buf, "   AvgIncome=%s  Volatility=%s  Income5th=%s  Income95th=%s  AvgYears=%s\n",
			FormatCurrency(result.AverageIncome),
			FormatCurrency(result.IncomeVolatility),
			FormatCurrency(result.WorstCaseIncome),
			FormatCurrency(result.BestCaseIncome),
			result.AverageYearsSurvived.StringFixed(1),
		)
	}

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Recommended: %s\n", outcome.Recommended.DisplayName())

	if rec := outcome.ResultFor(outcome.Recommended); rec != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Representative trajectory (median-ending run):")
		fmt.Fprintln(&buf, "  Year  Age  Balance           Withdrawal      Return")
		for _, yr := range sampleYears(rec.RepresentativeTrajectory) {
			fmt.Fprintf(&buf, "  %4d  %3d  %-16s  %-14s  %s\n",
				yr.Year, yr.Age,
				FormatCurrency(yr.Balance),
				FormatCurrency(yr.Withdrawal),
				FormatPercentage(yr.Return.Mul(hundred)),
			)
		}
	}

	return buf.Bytes(), nil
}

// sampleYears thins long trajectories to every fifth year plus the last,
// to keep the console block readable.
func sampleYears(t domain.Trajectory) domain.Trajectory {
	if len(t) <= 12 {
		return t
	}
	sampled := make(domain.Trajectory, 0, len(t)/5+2)
	for i, yr := range t {
		if i%5 == 0 || i == len(t)-1 {
			sampled = append(sampled, yr)
		}
	}
	return sampled
}
