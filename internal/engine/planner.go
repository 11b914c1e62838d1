package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"debtplan/internal/core"
	"debtplan/internal/log"
)

// ErrNoLoans is returned when a plan is requested for an empty loan list.
var ErrNoLoans = errors.New("no loans provided")

// Planner runs the full baseline-versus-strategy comparison. It is a pure,
// synchronous computation with no state across invocations, so a single
// Planner is safe to share between concurrent callers.
type Planner struct {
	logger *log.Logger
}

// NewPlanner creates a planner. A nil logger falls back to the default
// configuration.
func NewPlanner(logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentEngine)
	}
	return &Planner{logger: logger}
}

// Plan projects month-by-month balances for the given loans under a
// minimum-repayments-only baseline and under the configured strategy, then
// merges both projections into a per-loan comparison. The start date anchors
// the simulated calendar and is injectable for testability.
func (p *Planner) Plan(ctx context.Context, loans []core.LoanInput, settings core.PlannerSettings, start time.Time) (*core.PlanResult, error) {
	if len(loans) == 0 {
		return nil, ErrNoLoans
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	arena, err := normalizeLoans(loans)
	if err != nil {
		return nil, err
	}

	baseline, err := newSimulation(arena, baselineProfile(settings.Strategy), start)
	if err != nil {
		return nil, err
	}
	baseRes := baseline.run()

	strategy, err := newSimulation(arena, profileFromSettings(settings), start)
	if err != nil {
		return nil, err
	}
	stratRes := strategy.run()

	result := mergeRuns(settings.Strategy, stratRes, baseRes)

	p.logger.InfoContext(ctx, "Plan computed",
		log.FieldStrategy, string(settings.Strategy),
		log.FieldLoanCount, len(loans),
		log.FieldPeriods, stratRes.periods,
		log.FieldBaselinePeriods, baseRes.periods,
		log.FieldInterestSaved, result.TotalInterestSaved)

	return result, nil
}

// mergeRuns compares each loan's strategy outcome against its baseline
// outcome. Savings are floored at zero: a strategy is never reported as
// making a loan worse off than doing nothing extra.
func mergeRuns(strategy core.Strategy, strat, base runResult) *core.PlanResult {
	result := &core.PlanResult{
		Strategy: strategy,
		Loans:    make([]core.LoanOutcome, 0, len(strat.loans)),
	}

	var debtFree *time.Time
	for i := range strat.loans {
		sl := &strat.loans[i]
		bl := &base.loans[i]

		out := core.LoanOutcome{
			LoanID:            sl.id,
			LoanName:          sl.name,
			OriginalPrincipal: sl.original,
			PayoffDate:        sl.payoffDate,
			BaselinePayoff:    bl.payoffDate,
			InterestPaid:      sl.interestPaid,
			BaselineInterest:  bl.interestPaid,
			InterestSaved:     math.Max(0, bl.interestPaid-sl.interestPaid),
			NonPayoffable:     sl.nonPayoffable,
		}
		if sl.payoffDate != nil {
			months := sl.monthsToPayoff
			out.MonthsToPayoff = &months
			if bl.payoffDate != nil && bl.monthsToPayoff > sl.monthsToPayoff {
				out.MonthsSaved = bl.monthsToPayoff - sl.monthsToPayoff
			}
			if debtFree == nil || sl.payoffDate.After(*debtFree) {
				debtFree = sl.payoffDate
			}
		}

		result.TotalInterestPaid += out.InterestPaid
		result.TotalInterestSaved += out.InterestSaved
		result.Loans = append(result.Loans, out)
	}
	result.DebtFreeDate = debtFree
	return result
}
