// Package stats provides small decimal statistics helpers used by the
// simulation aggregator: sorting, guarded percentile indexing, mean and
// population standard deviation.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Sort sorts values ascending in place and returns the slice.
func Sort(values []decimal.Decimal) []decimal.Decimal {
	sort.Slice(values, func(i, j int) bool {
		return values[i].LessThan(values[j])
	})
	return values
}

// PercentileSorted returns the value at index floor(len * p) of an
// ascending-sorted slice. The index is clamped below len so a percentile
// that rounds up to exactly the count never reads out of range.
func PercentileSorted(sorted []decimal.Decimal, p float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Mean returns the arithmetic mean, or zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	var sum decimal.Decimal
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// PopulationStdDev returns the population standard deviation. The square
// root runs through float64, matching the precision the rest of the
// reporting needs.
func PopulationStdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	mean := Mean(values)
	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	varianceFloat, _ := variance.Float64()
	return decimal.NewFromFloat(math.Sqrt(varianceFloat))
}
