package simulation

import "github.com/shopspring/decimal"

// sp500AnnualReturns holds S&P 500 annual total return percentages
// (dividends reinvested) for 1928-2023.
var sp500AnnualReturns = []float64{
	43.81, -8.30, -25.12, -43.84, -8.64, 49.98, -1.19, 46.74, 31.94, -35.34, // 1928-1937
	29.28, -1.10, -10.67, -12.77, 19.17, 25.06, 19.03, 35.82, -8.43, 5.20, // 1938-1947
	5.70, 18.30, 30.81, 23.68, 18.15, -1.21, 52.56, 32.60, 7.44, -10.46, // 1948-1957
	43.72, 12.06, 0.34, 26.64, -8.81, 22.61, 16.42, 12.40, -9.97, 23.80, // 1958-1967
	10.81, -8.24, 3.56, 14.22, 18.76, -14.31, -25.90, 37.00, 23.83, -6.98, // 1968-1977
	6.51, 18.52, 31.74, -4.70, 20.42, 22.34, 6.15, 31.24, 18.49, 5.81, // 1978-1987
	16.54, 31.48, -3.06, 30.23, 7.49, 9.97, 1.33, 37.20, 22.68, 33.10, // 1988-1997
	28.34, 20.89, -9.03, -11.85, -21.97, 28.36, 10.74, 4.83, 15.61, 5.48, // 1998-2007
	-36.55, 25.94, 14.82, 2.10, 15.89, 32.15, 13.52, 1.38, 11.77, 21.61, // 2008-2017
	-4.23, 31.21, 18.02, 28.47, -18.04, 26.06, // 2018-2023
}

// DefaultDataset returns the built-in S&P 500 annual return dataset.
// Callers get a fresh copy; the package-level series is never mutated.
func DefaultDataset() *ReturnDataset {
	returns := make([]decimal.Decimal, len(sp500AnnualReturns))
	for i, r := range sp500AnnualReturns {
		returns[i] = decimal.NewFromFloat(r)
	}
	ds, err := NewReturnDataset("sp500-annual", "S&P 500 total returns 1928-2023", returns)
	if err != nil {
		// The embedded series is non-empty; this cannot happen.
		panic(err)
	}
	return ds
}
