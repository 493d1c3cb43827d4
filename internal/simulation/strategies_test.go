package simulation

import (
	"testing"

	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantPath(years int, annualReturn float64) []decimal.Decimal {
	path := make([]decimal.Decimal, years)
	r := decimal.NewFromFloat(annualReturn)
	for i := range path {
		path[i] = r
	}
	return path
}

var (
	million        = decimal.NewFromInt(1000000)
	inflation25bps = decimal.NewFromFloat(0.025)
)

func TestApplyStrategyValidation(t *testing.T) {
	_, err := ApplyStrategy("made_up", million, 10, decimal.Zero, constantPath(10, 0.05), PolicyParams{})
	assert.Error(t, err)

	_, err = ApplyStrategy(domain.StrategyFixedReal, million, 0, decimal.Zero, nil, PolicyParams{})
	assert.Error(t, err)

	_, err = ApplyStrategy(domain.StrategyFixedReal, million, 10, decimal.Zero, constantPath(5, 0.05), PolicyParams{})
	assert.Error(t, err, "path shorter than horizon")
}

func TestFixedRealZeroVolatility(t *testing.T) {
	growing, err := ApplyStrategy(domain.StrategyFixedReal, million, 30, inflation25bps, constantPath(30, 0.05), PolicyParams{})
	require.NoError(t, err)
	flat, err := ApplyStrategy(domain.StrategyFixedReal, million, 30, inflation25bps, constantPath(30, 0.0), PolicyParams{})
	require.NoError(t, err)

	require.Len(t, growing, 30)
	for _, yr := range growing {
		assert.True(t, yr.Balance.IsPositive(), "year %d: +5%% every year must never deplete", yr.Year)
	}
	assert.True(t, growing.EndingBalance().GreaterThan(flat.EndingBalance()),
		"constant +5%% must end above a flat 0%% path")
}

func TestFixedRealWithdrawalGrowsWithInflation(t *testing.T) {
	trajectory, err := ApplyStrategy(domain.StrategyFixedReal, million, 5, inflation25bps, constantPath(5, 0.05), PolicyParams{})
	require.NoError(t, err)

	assert.True(t, trajectory[0].Withdrawal.Equal(decimal.NewFromInt(40000)), "first year is 4%% of initial")
	for i := 1; i < len(trajectory); i++ {
		expected := trajectory[i-1].Withdrawal.Mul(one.Add(inflation25bps))
		assert.True(t, trajectory[i].Withdrawal.Equal(expected), "year %d withdrawal", i+1)
	}
}

func TestMonotonicDepletion(t *testing.T) {
	// A -50% return every year exhausts the portfolio well inside 30 years.
	trajectory, err := ApplyStrategy(domain.StrategyFixedReal, million, 30, inflation25bps, constantPath(30, -0.5), PolicyParams{})
	require.NoError(t, err)

	depleted, firstZero := trajectory.Depleted()
	require.True(t, depleted)
	require.Greater(t, firstZero, 1)

	for _, yr := range trajectory {
		assert.False(t, yr.Balance.IsNegative(), "year %d: balance must never go negative", yr.Year)
		if yr.Year > firstZero {
			assert.True(t, yr.Balance.IsZero(), "year %d: no resurrection after depletion in year %d", yr.Year, firstZero)
			assert.True(t, yr.Withdrawal.IsZero(), "year %d: depleted portfolio pays nothing", yr.Year)
		}
	}
}

func TestVariablePercentage(t *testing.T) {
	trajectory, err := ApplyStrategy(domain.StrategyVariablePercentage, million, 10, decimal.Zero, constantPath(10, 0.05), PolicyParams{})
	require.NoError(t, err)

	assert.True(t, trajectory[0].Withdrawal.Equal(decimal.NewFromInt(40000)), "default rate is 4%%")

	balance := million
	rate := decimal.NewFromFloat(0.04)
	growth := decimal.NewFromFloat(1.05)
	for i, yr := range trajectory {
		expectedWithdrawal := balance.Mul(rate)
		assert.True(t, yr.Withdrawal.Equal(expectedWithdrawal), "year %d withdrawal", i+1)
		balance = balance.Sub(expectedWithdrawal).Mul(growth)
		assert.True(t, yr.Balance.Equal(balance), "year %d balance", i+1)
		assert.True(t, yr.Balance.IsPositive(), "percentage-of-current never fully depletes")
	}
}

func TestVariablePercentageCustomRate(t *testing.T) {
	params := PolicyParams{WithdrawalRate: decimal.NewFromFloat(0.05)}
	trajectory, err := ApplyStrategy(domain.StrategyVariablePercentage, million, 3, decimal.Zero, constantPath(3, 0.0), params)
	require.NoError(t, err)
	assert.True(t, trajectory[0].Withdrawal.Equal(decimal.NewFromInt(50000)))
}

func TestGuardrailsCrashCutsWithdrawal(t *testing.T) {
	// One 50% crash in year one, flat thereafter, no inflation so the hard
	// bounds are exact shares of the initial portfolio.
	path := constantPath(20, 0.0)
	path[0] = decimal.NewFromFloat(-0.5)

	trajectory, err := ApplyStrategy(domain.StrategyGuardrails, million, 20, decimal.Zero, path, PolicyParams{})
	require.NoError(t, err)

	assert.True(t, trajectory[0].Withdrawal.Equal(decimal.NewFromInt(40000)))
	assert.True(t, trajectory[1].Withdrawal.LessThan(trajectory[0].Withdrawal),
		"withdrawal must be cut once below 80%% of peak with rate above 5%%")

	floor := decimal.NewFromInt(30000)   // 3% of initial
	ceiling := decimal.NewFromInt(60000) // 6% of initial
	depleted, firstZero := trajectory.Depleted()
	for _, yr := range trajectory {
		if depleted && yr.Year >= firstZero {
			// The depletion year pays out whatever is left, which may be
			// under the floor; later years pay nothing.
			continue
		}
		assert.True(t, yr.Withdrawal.GreaterThanOrEqual(floor), "year %d below hard floor", yr.Year)
		assert.True(t, yr.Withdrawal.LessThanOrEqual(ceiling), "year %d above hard ceiling", yr.Year)
	}
}

func TestGuardrailsBoomRaisesWithdrawal(t *testing.T) {
	trajectory, err := ApplyStrategy(domain.StrategyGuardrails, million, 20, decimal.Zero, constantPath(20, 0.30), PolicyParams{})
	require.NoError(t, err)

	raised := false
	ceiling := decimal.NewFromInt(60000)
	for _, yr := range trajectory {
		if yr.Withdrawal.GreaterThan(decimal.NewFromInt(40000)) {
			raised = true
		}
		assert.True(t, yr.Withdrawal.LessThanOrEqual(ceiling), "year %d above hard ceiling", yr.Year)
	}
	assert.True(t, raised, "a sustained boom must eventually trigger the raise rail")
}

func TestBucketRefillAfterGoodYear(t *testing.T) {
	trajectory, err := ApplyStrategy(domain.StrategyBucket, million, 10, decimal.Zero, constantPath(10, 0.20), PolicyParams{})
	require.NoError(t, err)

	// First-year spending is 40000: cash target 100000, bond target 240000.
	// Year 1: cash drains to 60000, earns 2.5% (61500), then a +20% stock
	// year refills it back to exactly the 100000 target.
	state := initialBucketState(million, decimal.NewFromInt(100000), decimal.NewFromInt(240000))
	assert.True(t, state.Cash.Equal(decimal.NewFromInt(100000)))
	assert.True(t, state.Bonds.Equal(decimal.NewFromInt(240000)))
	assert.True(t, state.Stocks.Equal(decimal.NewFromInt(660000)))

	for _, yr := range trajectory {
		assert.True(t, yr.Balance.IsPositive(), "year %d", yr.Year)
	}
	// With every year at +20% the portfolio must grow despite withdrawals.
	assert.True(t, trajectory.EndingBalance().GreaterThan(million))
}

func TestBucketDrainOrder(t *testing.T) {
	state := domain.BucketState{
		Cash:   decimal.NewFromInt(100),
		Bonds:  decimal.NewFromInt(50),
		Stocks: decimal.NewFromInt(30),
	}

	drained, actual := drainBuckets(state, decimal.NewFromInt(160))
	assert.True(t, drained.Cash.IsZero())
	assert.True(t, drained.Bonds.IsZero())
	assert.True(t, drained.Stocks.Equal(decimal.NewFromInt(20)))
	assert.True(t, actual.Equal(decimal.NewFromInt(160)))

	// Asking for more than the buckets hold caps at what they can supply.
	drained, actual = drainBuckets(state, decimal.NewFromInt(500))
	assert.True(t, drained.Cash.IsZero())
	assert.True(t, drained.Bonds.IsZero())
	assert.True(t, drained.Stocks.IsZero())
	assert.True(t, actual.Equal(decimal.NewFromInt(180)))
}

func TestBucketRefillNeverOverdrawsStocks(t *testing.T) {
	state := domain.BucketState{
		Cash:   decimal.Zero,
		Bonds:  decimal.Zero,
		Stocks: decimal.NewFromInt(1000),
	}
	refilled := refillBuckets(state, decimal.NewFromInt(100000), decimal.NewFromInt(240000))

	// Each bucket may take at most 10% of the stock balance it sees.
	assert.True(t, refilled.Cash.Equal(decimal.NewFromInt(100)))
	assert.True(t, refilled.Bonds.Equal(decimal.NewFromInt(90)), "bond cap uses stocks after the cash transfer")
	assert.False(t, refilled.Stocks.IsNegative())
	assert.True(t, refilled.Total().Equal(decimal.NewFromInt(1000)), "refill moves money, never creates it")
}

func TestBucketDepletionStaysZero(t *testing.T) {
	small := decimal.NewFromInt(50000)
	trajectory, err := ApplyStrategy(domain.StrategyBucket, small, 30, inflation25bps, constantPath(30, -0.10), PolicyParams{})
	require.NoError(t, err)

	depleted, firstZero := trajectory.Depleted()
	require.True(t, depleted)
	for _, yr := range trajectory {
		if yr.Year > firstZero {
			assert.True(t, yr.Balance.IsZero(), "year %d", yr.Year)
			assert.True(t, yr.Withdrawal.IsZero(), "year %d", yr.Year)
		}
	}
}

func TestActuarialRate(t *testing.T) {
	cases := []struct {
		remaining int
		expected  string
	}{
		{50, "0.03"}, // 1/52 clamps up to the floor
		{23, "0.04"}, // 1/25
		{8, "0.08"},  // 1/10 exactly at the ceiling
		{5, "0.08"},  // 1/7 clamps down
		{0, "0.08"},  // at life expectancy: 1/2 clamps to ceiling
		{-1, "0.08"},
		{-2, "0.08"}, // zero denominator guarded
		{-10, "0.08"},
	}
	for _, tc := range cases {
		got := actuarialRate(tc.remaining)
		want, _ := decimal.NewFromString(tc.expected)
		assert.True(t, got.Equal(want), "remaining %d: got %s want %s", tc.remaining, got, want)
	}
}

func TestDynamicActuarialAtLifeExpectancy(t *testing.T) {
	params := PolicyParams{RetirementAge: 89, LifeExpectancy: 90}
	trajectory, err := ApplyStrategy(domain.StrategyDynamicActuarial, million, 1, decimal.Zero, constantPath(1, 0.0), params)
	require.NoError(t, err)

	require.Len(t, trajectory, 1)
	assert.Equal(t, 90, trajectory[0].Age)
	assert.True(t, trajectory[0].Withdrawal.Equal(decimal.NewFromInt(80000)),
		"rate must clamp to 8%% at the life-expectancy age")
	assert.False(t, trajectory[0].Withdrawal.IsNegative())
}

func TestDynamicActuarialRateRisesWithAge(t *testing.T) {
	params := PolicyParams{RetirementAge: 65, LifeExpectancy: 90}
	trajectory, err := ApplyStrategy(domain.StrategyDynamicActuarial, million, 25, decimal.Zero, constantPath(25, 0.0), params)
	require.NoError(t, err)

	prevRate := decimal.Zero
	for i, yr := range trajectory {
		if !trajectory[i].Balance.IsPositive() && yr.Withdrawal.IsZero() {
			break
		}
		// Rate relative to the balance the withdrawal was taken from.
		balanceBefore := million
		if i > 0 {
			balanceBefore = trajectory[i-1].Balance
		}
		if !balanceBefore.IsPositive() {
			break
		}
		rate := yr.Withdrawal.Div(balanceBefore)
		assert.True(t, rate.GreaterThanOrEqual(prevRate), "year %d: rate must not fall as life expectancy shrinks", yr.Year)
		assert.True(t, rate.LessThanOrEqual(actuarialMaxRate.Add(decimal.NewFromFloat(0.0001))))
		prevRate = rate
	}
}
