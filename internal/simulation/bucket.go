package simulation

import (
	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
)

// applyBucket splits the portfolio into cash, bond and stock buckets sized
// as multiples of first-year spending (2.5 years cash, 6 years bonds, the
// remainder in stocks). Withdrawals drain cash, then bonds, then stocks, in
// that strict order; each bucket earns its own return (stocks take the
// sampled market return, bonds a fixed 4.5%, cash a fixed 2.5%). After a
// stock year better than +5%, cash and then bonds are refilled toward their
// original targets from stocks, at most 10% of the current stock balance per
// bucket per year. The intended withdrawal grows with inflation like the
// fixed-real rule.
func applyBucket(initial decimal.Decimal, horizon int, inflation decimal.Decimal, path []decimal.Decimal) domain.Trajectory {
	intended := initial.Mul(baseWithdrawalRate)
	cashTarget := intended.Mul(bucketCashYears)
	bondTarget := intended.Mul(bucketBondYears)

	state := initialBucketState(initial, cashTarget, bondTarget)
	inflationFactor := one.Add(inflation)

	trajectory := make(domain.Trajectory, 0, horizon)

	for year := 0; year < horizon; year++ {
		var actual decimal.Decimal
		state, actual = drainBuckets(state, intended)

		state.Cash = state.Cash.Mul(one.Add(bucketCashReturn))
		state.Bonds = state.Bonds.Mul(one.Add(bucketBondReturn))
		state.Stocks = state.Stocks.Mul(one.Add(path[year]))

		if path[year].GreaterThan(bucketRefillThreshold) {
			state = refillBuckets(state, cashTarget, bondTarget)
		}

		trajectory = append(trajectory, domain.YearRecord{
			Year:       year + 1,
			Balance:    state.Total(),
			Withdrawal: actual,
			Return:     path[year],
		})

		intended = intended.Mul(inflationFactor)
	}
	return trajectory
}

// initialBucketState sizes the three buckets, clamping against a portfolio
// too small to fill the cash and bond targets.
func initialBucketState(initial, cashTarget, bondTarget decimal.Decimal) domain.BucketState {
	cash := decimal.Min(cashTarget, initial)
	bonds := decimal.Min(bondTarget, initial.Sub(cash))
	stocks := initial.Sub(cash).Sub(bonds)
	return domain.BucketState{Cash: cash, Bonds: bonds, Stocks: stocks}
}

// drainBuckets withdraws up to the intended amount, cash first, then bonds,
// then stocks. No sub-balance ever goes negative; the actual withdrawal is
// whatever the three buckets could supply.
func drainBuckets(state domain.BucketState, intended decimal.Decimal) (domain.BucketState, decimal.Decimal) {
	remaining := intended

	fromCash := decimal.Min(remaining, state.Cash)
	state.Cash = state.Cash.Sub(fromCash)
	remaining = remaining.Sub(fromCash)

	fromBonds := decimal.Min(remaining, state.Bonds)
	state.Bonds = state.Bonds.Sub(fromBonds)
	remaining = remaining.Sub(fromBonds)

	fromStocks := decimal.Min(remaining, state.Stocks)
	state.Stocks = state.Stocks.Sub(fromStocks)
	remaining = remaining.Sub(fromStocks)

	return state, intended.Sub(remaining)
}

// refillBuckets transfers from stocks toward the cash target first, then the
// bond target, capped at 10% of the stock balance per bucket. The bond cap
// is computed from whatever stocks still hold after the cash transfer.
func refillBuckets(state domain.BucketState, cashTarget, bondTarget decimal.Decimal) domain.BucketState {
	cashNeed := cashTarget.Sub(state.Cash)
	if cashNeed.IsPositive() {
		transfer := decimal.Min(cashNeed, state.Stocks.Mul(bucketRefillFraction))
		state.Stocks = state.Stocks.Sub(transfer)
		state.Cash = state.Cash.Add(transfer)
	}

	bondNeed := bondTarget.Sub(state.Bonds)
	if bondNeed.IsPositive() {
		transfer := decimal.Min(bondNeed, state.Stocks.Mul(bucketRefillFraction))
		state.Stocks = state.Stocks.Sub(transfer)
		state.Bonds = state.Bonds.Add(transfer)
	}
	return state
}
