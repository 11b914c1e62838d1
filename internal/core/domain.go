package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Avalanche               Strategy = "AVALANCHE"
	Snowball                Strategy = "SNOWBALL"
	TaxAwareMinimumInterest Strategy = "TAX_AWARE_MINIMUM_INTEREST"
)

const (
	CategoryHome       LoanCategory = "HOME"
	CategoryInvestment LoanCategory = "INVESTMENT"
)

const (
	RateFixed    RateType = "FIXED"
	RateVariable RateType = "VARIABLE"
)

type (
	// Strategy selects how surplus cash is allocated across loans each period.
	Strategy string

	// LoanCategory distinguishes non-deductible home debt from investment debt.
	LoanCategory string

	// RateType marks a loan as fixed-rate or variable-rate.
	RateType string

	// LoanInput is a normalized loan record as supplied by the calling
	// application. It is never mutated by the engine.
	LoanInput struct {
		ID                  string       `json:"id"`
		Name                string       `json:"name"`
		Category            LoanCategory `json:"category"`
		Principal           float64      `json:"principal"`
		AnnualRate          float64      `json:"annualRate"` // decimal, e.g. 0.055
		RateType            RateType     `json:"rateType"`
		FixedRateExpiry     *time.Time   `json:"fixedRateExpiry,omitempty"`
		InterestOnly        bool         `json:"interestOnly"`
		RemainingTermMonths int          `json:"remainingTermMonths"`
		MinRepayment        float64      `json:"minRepayment"`
		MinRepaymentFreq    Frequency    `json:"minRepaymentFreq"`
		OffsetBalance       float64      `json:"offsetBalance"`
		// AnnualExtraCap is the yearly ceiling on extra repayments while the
		// loan is on a fixed rate. Nil means no cap applies.
		AnnualExtraCap *float64 `json:"annualExtraCap,omitempty"`
	}

	// PlannerSettings configures a repayment plan run.
	PlannerSettings struct {
		Strategy    Strategy  `json:"strategy"`
		Surplus     float64   `json:"surplus"`
		SurplusFreq Frequency `json:"surplusFreq"`
		// EmergencyBuffer is an absolute monthly dollar amount held back from
		// the surplus before it is allocated to any loan.
		EmergencyBuffer  float64 `json:"emergencyBuffer"`
		RespectFixedCaps bool    `json:"respectFixedCaps"`
		// RolloverMinimums adds a paid-off loan's freed minimum repayment to
		// the surplus pool for subsequent periods.
		RolloverMinimums bool `json:"rolloverMinimums"`
	}
)

var (
	ErrEmptyLoanID      = errors.New("empty loan id")
	ErrInvalidPrincipal = errors.New("principal must be positive")
	ErrInvalidCategory  = errors.New("invalid loan category")
	ErrInvalidRateType  = errors.New("invalid rate type")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidStrategy  = errors.New("invalid strategy")
)

// IsValid returns true if the strategy is one of the supported policies.
func (s Strategy) IsValid() bool {
	switch s {
	case Avalanche, Snowball, TaxAwareMinimumInterest:
		return true
	default:
		return false
	}
}

func (c LoanCategory) IsValid() bool {
	switch c {
	case CategoryHome, CategoryInvestment:
		return true
	default:
		return false
	}
}

func (rt RateType) IsValid() bool {
	switch rt {
	case RateFixed, RateVariable:
		return true
	default:
		return false
	}
}

// Validate checks the structural soundness of a loan record. Degenerate
// numeric shapes that the simulator handles gracefully (zero term, zero rate)
// are deliberately not errors.
func (l LoanInput) Validate() error {
	if len(strings.TrimSpace(l.ID)) == 0 {
		return ErrEmptyLoanID
	}
	if l.Principal <= 0 {
		return ErrInvalidPrincipal
	}
	if !l.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !l.RateType.IsValid() {
		return ErrInvalidRateType
	}
	if err := l.MinRepaymentFreq.Validate(); err != nil {
		return err
	}
	if l.MinRepayment < 0 {
		return ErrNegativeAmount
	}
	if l.OffsetBalance < 0 {
		return ErrNegativeAmount
	}
	if l.AnnualExtraCap != nil && *l.AnnualExtraCap < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Validate rejects malformed settings before they reach the simulator, which
// assumes normalized, non-negative inputs.
func (s PlannerSettings) Validate() error {
	if !s.Strategy.IsValid() {
		return ErrInvalidStrategy
	}
	if err := s.SurplusFreq.Validate(); err != nil {
		return err
	}
	if s.Surplus < 0 {
		return ErrNegativeAmount
	}
	if s.EmergencyBuffer < 0 {
		return ErrNegativeAmount
	}
	return nil
}
