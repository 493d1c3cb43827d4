package simulation

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// GenerateReturnPath bootstrap-samples one sequence of annual returns, as
// decimals, from the historical dataset. Sampling is with replacement: the
// same historical year may be drawn several times or not at all in one path.
// That is the point of the bootstrap method and must not be replaced with
// sequential or non-replacement sampling.
func GenerateReturnPath(years int, src *Source, dataset *ReturnDataset) []decimal.Decimal {
	path := make([]decimal.Decimal, years)
	n := dataset.Len()
	for i := 0; i < years; i++ {
		idx := int(src.Float64() * float64(n))
		// Guard floating-point rounding at u close to 1.0.
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		path[i] = dataset.At(idx).Div(oneHundred)
	}
	return path
}
