// Package engine implements the debt repayment simulation and optimization
// engine: input normalization, surplus-allocation strategies and the monthly
// stepping simulator that projects baseline and optimized payoff outcomes.
package engine

import (
	"fmt"
	"math"
	"time"

	"debtplan/internal/core"
)

// minRepaymentTolerance is how far below the amortization-required minimum a
// supplied repayment may sit before it is replaced. Inputs under this fraction
// would never amortize the loan.
const minRepaymentTolerance = 0.95

// payoffEpsilon is the residual principal under which a loan counts as paid.
const payoffEpsilon = 0.01

// simLoan is the engine-owned mutable state for one loan. A fresh set is
// created per run and discarded with the run's result; baseline and strategy
// runs never share copies.
type simLoan struct {
	id              string
	name            string
	category        core.LoanCategory
	annualRate      float64
	rateType        core.RateType
	fixedRateExpiry *time.Time
	interestOnly    bool
	offsetBalance   float64
	minMonthly      float64
	annualCap       float64
	hasCap          bool

	original       float64
	principal      float64
	interestPaid   float64
	paidOff        bool
	nonPayoffable  bool
	payoffDate     *time.Time
	monthsToPayoff int
	ytdExtra       float64
}

// effectivePrincipal is the interest-bearing balance after the linked offset
// account is applied.
func (l *simLoan) effectivePrincipal() float64 {
	return math.Max(0, l.principal-l.offsetBalance)
}

func (l *simLoan) monthlyRate() float64 {
	return l.annualRate / 12
}

// remainingAllowance is what is left of the annual extra-repayment cap this
// calendar year. Only meaningful when hasCap is true.
func (l *simLoan) remainingAllowance() float64 {
	return math.Max(0, l.annualCap-l.ytdExtra)
}

// fixedAt reports whether the loan is on a fixed rate at the given date. A nil
// expiry means the fixed term outlasts the simulation.
func (l *simLoan) fixedAt(date time.Time) bool {
	if l.rateType != core.RateFixed {
		return false
	}
	return l.fixedRateExpiry == nil || date.Before(*l.fixedRateExpiry)
}

// normalizeLoans converts raw loan records into simulation-ready state:
// cadences are reduced to monthly figures and under-specified minimum
// repayments are repaired against the amortization formula.
func normalizeLoans(loans []core.LoanInput) ([]simLoan, error) {
	sims := make([]simLoan, 0, len(loans))
	seen := make(map[string]bool, len(loans))
	for _, in := range loans {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("loan %q: %w", in.ID, err)
		}
		if seen[in.ID] {
			return nil, fmt.Errorf("loan %q: duplicate id", in.ID)
		}
		seen[in.ID] = true

		sl := simLoan{
			id:              in.ID,
			name:            in.Name,
			category:        in.Category,
			annualRate:      in.AnnualRate,
			rateType:        in.RateType,
			fixedRateExpiry: in.FixedRateExpiry,
			interestOnly:    in.InterestOnly,
			offsetBalance:   in.OffsetBalance,
			original:        in.Principal,
			principal:       in.Principal,
		}
		if in.AnnualExtraCap != nil {
			sl.hasCap = true
			sl.annualCap = *in.AnnualExtraCap
		}
		sl.minMonthly = normalizeMinRepayment(in)
		sims = append(sims, sl)
	}
	return sims, nil
}

// normalizeMinRepayment validates the supplied minimum repayment against what
// the loan actually requires each month, repairing it when it is too low to
// ever amortize.
func normalizeMinRepayment(in core.LoanInput) float64 {
	supplied := in.MinRepaymentFreq.ToMonthly(in.MinRepayment)
	required := requiredMinRepayment(in)
	if in.InterestOnly {
		// The minimum must cover at least the monthly interest charge.
		return math.Max(supplied, required)
	}
	if supplied < required*minRepaymentTolerance {
		return required
	}
	return supplied
}

// requiredMinRepayment computes the monthly repayment the loan needs.
//
// Principal-and-interest loans use the standard amortization formula
// M = P*[r(1+r)^n] / [(1+r)^n - 1]. Interest-only loans need only the monthly
// interest on the offset-reduced principal. A non-positive term or rate
// degrades to pay-off-immediately semantics rather than a division error.
func requiredMinRepayment(in core.LoanInput) float64 {
	r := in.AnnualRate / 12
	if in.InterestOnly {
		effective := math.Max(0, in.Principal-in.OffsetBalance)
		return math.Max(0, effective*r)
	}
	if in.RemainingTermMonths <= 0 || in.AnnualRate <= 0 {
		return in.Principal
	}
	n := float64(in.RemainingTermMonths)
	pow := math.Pow(1+r, n)
	return in.Principal * (r * pow) / (pow - 1)
}

// copySimLoans returns an independent copy of an arena so that the baseline
// and strategy runs each mutate their own state.
func copySimLoans(loans []simLoan) []simLoan {
	cp := make([]simLoan, len(loans))
	copy(cp, loans)
	return cp
}
