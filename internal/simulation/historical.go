package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// ReturnDataset is an immutable ordered sequence of annual market-return
// percentages drawn from a known historical period. It is shared, read-only,
// across every path generated during a simulation.
type ReturnDataset struct {
	Name       string            `json:"name"`
	Source     string            `json:"source"`
	Returns    []decimal.Decimal `json:"returns"` // percentages, e.g. 26.06 for +26.06%
	Statistics DatasetStatistics `json:"statistics"`
}

// DatasetStatistics summarizes a dataset for reporting and sanity checks.
type DatasetStatistics struct {
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// NewReturnDataset builds a dataset from annual return percentages. An empty
// series is a configuration error and fails here, at construction, rather
// than surfacing later as garbage statistics.
func NewReturnDataset(name, source string, returns []decimal.Decimal) (*ReturnDataset, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("return dataset %q is empty", name)
	}

	series := make([]decimal.Decimal, len(returns))
	copy(series, returns)

	return &ReturnDataset{
		Name:       name,
		Source:     source,
		Returns:    series,
		Statistics: computeDatasetStatistics(series),
	}, nil
}

// Len returns the number of historical years in the dataset.
func (ds *ReturnDataset) Len() int {
	return len(ds.Returns)
}

// At returns the return percentage at index i.
func (ds *ReturnDataset) At(i int) decimal.Decimal {
	return ds.Returns[i]
}

// computeDatasetStatistics calculates mean, population standard deviation,
// min and max of the raw percentage series.
func computeDatasetStatistics(values []decimal.Decimal) DatasetStatistics {
	var sum decimal.Decimal
	min := values[0]
	max := values[0]
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values))))

	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	varianceFloat, _ := variance.Float64()
	stdDev := decimal.NewFromFloat(math.Sqrt(varianceFloat))

	return DatasetStatistics{
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Count:  len(values),
	}
}

// LoadReturnDatasetCSV loads a dataset from a CSV file of year,return rows
// with a single header line. Malformed rows are skipped; an entirely empty
// file is an error.
func LoadReturnDatasetCSV(filePath, name, source string) (*ReturnDataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var returns []decimal.Decimal
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue // Skip malformed rows
		}
		if _, err := strconv.Atoi(record[0]); err != nil {
			continue // Skip rows with invalid year
		}
		value, err := decimal.NewFromString(record[1])
		if err != nil {
			continue // Skip rows with invalid value
		}
		returns = append(returns, value)
	}

	if len(returns) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", filePath)
	}

	return NewReturnDataset(name, source, returns)
}
