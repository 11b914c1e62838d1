package core

import "time"

type (
	// LoanOutcome compares a single loan's optimized projection against its
	// minimum-repayments-only baseline. Payoff fields are nil when the loan is
	// never paid off under the corresponding run.
	LoanOutcome struct {
		LoanID            string     `json:"loanId"`
		LoanName          string     `json:"loanName"`
		OriginalPrincipal float64    `json:"originalPrincipal"`
		PayoffDate        *time.Time `json:"payoffDate,omitempty"`
		BaselinePayoff    *time.Time `json:"baselinePayoff,omitempty"`
		InterestPaid      float64    `json:"interestPaid"`
		BaselineInterest  float64    `json:"baselineInterest"`
		MonthsToPayoff    *int       `json:"monthsToPayoff,omitempty"`
		MonthsSaved       int        `json:"monthsSaved"`
		InterestSaved     float64    `json:"interestSaved"`
		// NonPayoffable marks an interest-only loan that receives no surplus
		// and therefore can never reduce its principal. The calling layer must
		// surface this to the user.
		NonPayoffable bool `json:"nonPayoffable"`
	}

	// PlanResult is the aggregate outcome of one planner run. Given identical
	// loans, settings and start date the engine always produces an identical
	// PlanResult.
	PlanResult struct {
		Strategy           Strategy      `json:"strategy"`
		Loans              []LoanOutcome `json:"loans"`
		TotalInterestPaid  float64       `json:"totalInterestPaid"`
		TotalInterestSaved float64       `json:"totalInterestSaved"`
		DebtFreeDate       *time.Time    `json:"debtFreeDate,omitempty"`
	}
)

// HasWarnings returns true if any loan in the plan is flagged non-payoffable.
func (r PlanResult) HasWarnings() bool {
	for _, l := range r.Loans {
		if l.NonPayoffable {
			return true
		}
	}
	return false
}
