package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/drawplan/drawplan/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per strategy, in
// canonical evaluation order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(outcome *domain.SimulationOutcome) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Strategy", "SuccessRate", "P10", "P25", "P50", "P75", "P90",
		"AverageIncome", "IncomeVolatility", "Income5th", "Income95th",
		"AverageYearsSurvived", "CompositeScore", "Recommended",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	scores := make(map[domain.Strategy]string, len(outcome.Rankings))
	for _, rs := range outcome.Rankings {
		scores[rs.Strategy] = rs.Score.StringFixed(2)
	}

	for _, result := range outcome.Results {
		row := []string{
			string(result.Strategy),
			result.SuccessRate.StringFixed(2),
			result.EndingWealthPercentiles.P10.StringFixed(2),
			result.EndingWealthPercentiles.P25.StringFixed(2),
			result.EndingWealthPercentiles.P50.StringFixed(2),
			result.EndingWealthPercentiles.P75.StringFixed(2),
			result.EndingWealthPercentiles.P90.StringFixed(2),
			result.AverageIncome.StringFixed(2),
			result.IncomeVolatility.StringFixed(2),
			result.WorstCaseIncome.StringFixed(2),
			result.BestCaseIncome.StringFixed(2),
			result.AverageYearsSurvived.StringFixed(2),
			scores[result.Strategy],
			strconv.FormatBool(result.Strategy == outcome.Recommended),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
