// This file implements the surplus-allocation strategies as a table of pure
// selection functions keyed by strategy tag. Each selector can be unit-tested
// in isolation from the simulator loop, and new strategies register without
// touching the stepping code.
package engine

import (
	"fmt"

	"debtplan/internal/core"
)

// SelectorFunc picks the loan that should receive this period's surplus from
// the set of candidates, or -1 when the set is empty. Candidates are indices
// into the run's loan arena and arrive in input order; ties resolve to the
// first candidate encountered, which keeps selection deterministic for a
// given input ordering.
type SelectorFunc func(loans []simLoan, candidates []int) int

// surplusSelectors maps each strategy to its selection function.
var surplusSelectors = map[core.Strategy]SelectorFunc{
	core.Avalanche:               selectHighestRate,
	core.Snowball:                selectSmallestPrincipal,
	core.TaxAwareMinimumInterest: selectTaxAware,
}

// selectorFor returns the selection function for a strategy.
func selectorFor(strategy core.Strategy) (SelectorFunc, error) {
	sel, ok := surplusSelectors[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", strategy)
	}
	return sel, nil
}

// selectHighestRate implements AVALANCHE: the candidate with the strictly
// highest annual interest rate wins.
func selectHighestRate(loans []simLoan, candidates []int) int {
	best := -1
	for _, i := range candidates {
		if best == -1 || loans[i].annualRate > loans[best].annualRate {
			best = i
		}
	}
	return best
}

// selectSmallestPrincipal implements SNOWBALL: the candidate with the
// smallest current principal wins.
func selectSmallestPrincipal(loans []simLoan, candidates []int) int {
	best := -1
	for _, i := range candidates {
		if best == -1 || loans[i].principal < loans[best].principal {
			best = i
		}
	}
	return best
}

// selectTaxAware retires non-deductible debt first: while any HOME loan
// remains active the highest-rate HOME loan is selected, and only once all
// HOME loans are gone does selection fall through to the highest-rate
// INVESTMENT loan.
func selectTaxAware(loans []simLoan, candidates []int) int {
	home := candidates[:0:0]
	for _, i := range candidates {
		if loans[i].category == core.CategoryHome {
			home = append(home, i)
		}
	}
	if len(home) > 0 {
		return selectHighestRate(loans, home)
	}
	return selectHighestRate(loans, candidates)
}
