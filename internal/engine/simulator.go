package engine

import (
	"math"
	"time"

	"debtplan/internal/core"
)

// maxSimulationMonths is the hard safety horizon. It guarantees termination
// for pathological inputs (e.g. a minimum repayment below the monthly
// interest on a loan that escaped normalization); it is not a business rule.
const maxSimulationMonths = 1200

type (
	// runProfile is one settings shape a simulation runs under. The baseline
	// profile zeroes the surplus so savings are measured against a true
	// do-nothing-extra comparison.
	runProfile struct {
		strategy       core.Strategy
		monthlySurplus float64
		buffer         float64
		respectCaps    bool
		rollover       bool
	}

	// periodState is the per-period loop state threaded through the monthly
	// fold. Each step consumes the previous state and produces the next, so a
	// single period transition is testable on its own.
	periodState struct {
		period int       // completed periods so far
		date   time.Time // date of the last completed period
		// surplusPool is the recurring monthly surplus freed by paid-off
		// loans when rollover is enabled. Additions take effect from the
		// period after the payoff.
		surplusPool float64
		done        bool
	}

	// runResult is the raw outcome of a single simulation run.
	runResult struct {
		loans         []simLoan
		totalInterest float64
		periods       int
	}

	// simulation owns the mutable loan arena for one run. It is created,
	// stepped to completion and discarded; nothing is shared across runs.
	simulation struct {
		loans         []simLoan
		profile       runProfile
		selector      SelectorFunc
		start         time.Time
		netSurplus    float64
		totalInterest float64
	}
)

func profileFromSettings(s core.PlannerSettings) runProfile {
	return runProfile{
		strategy:       s.Strategy,
		monthlySurplus: s.SurplusFreq.ToMonthly(s.Surplus),
		buffer:         s.EmergencyBuffer,
		respectCaps:    s.RespectFixedCaps,
		rollover:       s.RolloverMinimums,
	}
}

func baselineProfile(strategy core.Strategy) runProfile {
	return runProfile{strategy: strategy, respectCaps: true}
}

// newSimulation prepares a run over its own copy of the loan arena. Interest-
// only loans that will never see surplus are flagged non-payoffable up front:
// their principal cannot reduce, so they accrue interest for reporting but are
// excluded from termination checks.
func newSimulation(loans []simLoan, profile runProfile, start time.Time) (*simulation, error) {
	selector, err := selectorFor(profile.strategy)
	if err != nil {
		return nil, err
	}
	s := &simulation{
		loans:      copySimLoans(loans),
		profile:    profile,
		selector:   selector,
		start:      start,
		netSurplus: math.Max(0, profile.monthlySurplus-profile.buffer),
	}
	for i := range s.loans {
		if s.loans[i].interestOnly && s.netSurplus <= 0 {
			s.loans[i].nonPayoffable = true
		}
	}
	return s, nil
}

func (s *simulation) initialState() periodState {
	return periodState{date: s.start, done: s.allPayoffablePaid()}
}

// run folds step over periods until every payoffable loan is paid off or the
// safety horizon is reached. Loans unresolved at the horizon receive the
// horizon date and the maximum month count, signalling an unsustainable
// repayment configuration rather than a computed payoff.
func (s *simulation) run() runResult {
	st := s.initialState()
	for !st.done && st.period < maxSimulationMonths {
		st = s.step(st)
	}
	if !st.done {
		horizon := s.start.AddDate(0, maxSimulationMonths, 0)
		for i := range s.loans {
			l := &s.loans[i]
			if !l.paidOff && !l.nonPayoffable {
				d := horizon
				l.payoffDate = &d
				l.monthsToPayoff = maxSimulationMonths
			}
		}
	}
	return runResult{loans: s.loans, totalInterest: s.totalInterest, periods: st.period}
}

// step advances the simulation by one month: year-boundary reset, interest
// accrual, minimum repayments, then a single surplus allocation chosen by the
// strategy selector.
func (s *simulation) step(st periodState) periodState {
	next := periodState{period: st.period + 1, surplusPool: st.surplusPool}
	next.date = s.start.AddDate(0, next.period, 0)

	// Year-to-date extra-repayment counters reset exactly at a calendar-year
	// boundary.
	if next.date.Year() != st.date.Year() {
		for i := range s.loans {
			s.loans[i].ytdExtra = 0
		}
	}

	var freed float64
	for i := range s.loans {
		l := &s.loans[i]
		if l.paidOff {
			continue
		}
		interest := l.effectivePrincipal() * l.monthlyRate()
		if interest > 0 {
			l.interestPaid += interest
			s.totalInterest += interest
		}
		if l.nonPayoffable {
			continue
		}
		if !l.interestOnly {
			// The minimum covers the interest charge first; only the
			// remainder reduces principal.
			reduction := math.Max(0, l.minMonthly-interest)
			l.principal -= math.Min(reduction, l.principal)
		}
		freed += s.settlePayoff(l, next.date, next.period)
	}

	if avail := s.netSurplus + st.surplusPool; avail > 0 {
		if t := s.selector(s.loans, s.candidates(next.date)); t >= 0 {
			l := &s.loans[t]
			extra := avail
			if s.capApplies(l, next.date) {
				extra = math.Min(extra, l.remainingAllowance())
			}
			extra = math.Min(extra, l.principal)
			if extra > 0 {
				l.principal -= extra
				l.ytdExtra += extra
				freed += s.settlePayoff(l, next.date, next.period)
			}
		}
	}

	next.surplusPool += freed
	next.done = s.allPayoffablePaid()
	return next
}

// settlePayoff freezes a loan at zero principal once it falls under the
// payoff epsilon, records the payoff date and month count, and returns the
// freed minimum repayment when rollover is enabled.
func (s *simulation) settlePayoff(l *simLoan, date time.Time, period int) float64 {
	if l.paidOff || l.principal > payoffEpsilon {
		return 0
	}
	l.paidOff = true
	l.principal = 0
	d := date
	l.payoffDate = &d
	l.monthsToPayoff = period
	if s.profile.rollover {
		return l.minMonthly
	}
	return 0
}

// candidates returns the indices of loans eligible for surplus this period:
// not paid off, not non-payoffable, and not cap-restricted to zero remaining
// allowance.
func (s *simulation) candidates(date time.Time) []int {
	out := make([]int, 0, len(s.loans))
	for i := range s.loans {
		l := &s.loans[i]
		if l.paidOff || l.nonPayoffable {
			continue
		}
		if s.capApplies(l, date) && l.remainingAllowance() <= payoffEpsilon {
			continue
		}
		out = append(out, i)
	}
	return out
}

// capApplies reports whether the annual extra-repayment cap limits this loan
// at the given date: caps are respected by the profile and the loan is still
// within its fixed term.
func (s *simulation) capApplies(l *simLoan, date time.Time) bool {
	return s.profile.respectCaps && l.hasCap && l.fixedAt(date)
}

func (s *simulation) allPayoffablePaid() bool {
	for i := range s.loans {
		if !s.loans[i].paidOff && !s.loans[i].nonPayoffable {
			return false
		}
	}
	return true
}
