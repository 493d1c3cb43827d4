package simulation

import (
	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
)

// guardrailsState is the carried per-year state of the guardrails strategy:
// the current (already adjusted) withdrawal and the running portfolio peak.
// It is threaded through the year loop as a value so each run's state stays
// local to that run.
type guardrailsState struct {
	withdrawal decimal.Decimal
	peak       decimal.Decimal
}

// applyGuardrails starts like the fixed-real rule but checks the withdrawal
// rate against two rails each year. When the rate climbs above 5% while the
// portfolio sits below 80% of its peak, the withdrawal is cut by 10%,
// bounded below by 3% of the initial portfolio. When the rate falls under
// 3% while the portfolio exceeds 120% of the peak, the withdrawal is raised
// by 10%, bounded above by 6% of the initial portfolio. Inflation is applied
// after the rail check each year.
func applyGuardrails(initial decimal.Decimal, horizon int, inflation decimal.Decimal, path []decimal.Decimal) domain.Trajectory {
	state := guardrailsState{
		withdrawal: initial.Mul(baseWithdrawalRate),
		peak:       initial,
	}
	hardFloor := initial.Mul(guardrailFloorRate)
	hardCeiling := initial.Mul(guardrailCeilingRate)
	inflationFactor := one.Add(inflation)

	trajectory := make(domain.Trajectory, 0, horizon)
	balance := initial

	for year := 0; year < horizon; year++ {
		// The rails compare against the peak of previously observed
		// balances; the current balance joins the peak only after the
		// check, otherwise the 120%-of-peak condition could never hold.
		state = checkGuardrails(state, balance, hardFloor, hardCeiling)
		if balance.GreaterThan(state.peak) {
			state.peak = balance
		}

		newBalance, actual := settleYear(balance, state.withdrawal, path[year])
		balance = newBalance

		trajectory = append(trajectory, domain.YearRecord{
			Year:       year + 1,
			Balance:    balance,
			Withdrawal: actual,
			Return:     path[year],
		})

		state.withdrawal = state.withdrawal.Mul(inflationFactor)
	}
	return trajectory
}

// checkGuardrails applies the rail adjustments against the current balance
// and returns the updated state. A depleted portfolio skips the check; the
// zero-floor clamp in settleYear already forces a zero withdrawal.
func checkGuardrails(state guardrailsState, balance, hardFloor, hardCeiling decimal.Decimal) guardrailsState {
	if !balance.IsPositive() {
		return state
	}

	rate := state.withdrawal.Div(balance)

	if rate.GreaterThan(guardrailUpperRate) && balance.LessThan(state.peak.Mul(guardrailPeakFloor)) {
		state.withdrawal = state.withdrawal.Mul(one.Sub(guardrailAdjustment))
		if state.withdrawal.LessThan(hardFloor) {
			state.withdrawal = hardFloor
		}
	} else if rate.LessThan(guardrailLowerRate) && balance.GreaterThan(state.peak.Mul(guardrailPeakCeiling)) {
		state.withdrawal = state.withdrawal.Mul(one.Add(guardrailAdjustment))
		if state.withdrawal.GreaterThan(hardCeiling) {
			state.withdrawal = hardCeiling
		}
	}
	return state
}
