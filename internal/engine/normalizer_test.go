package engine

import (
	"testing"

	"debtplan/internal/core"
)

func piLoan(id string, principal, rate float64, term int, minMonthly float64) core.LoanInput {
	return core.LoanInput{
		ID:                  id,
		Name:                id,
		Category:            core.CategoryHome,
		Principal:           principal,
		AnnualRate:          rate,
		RateType:            core.RateVariable,
		RemainingTermMonths: term,
		MinRepayment:        minMonthly,
		MinRepaymentFreq:    core.Monthly,
	}
}

func TestRequiredMinRepayment_Amortization(t *testing.T) {
	// 300k at 5.5% over 30 years amortizes at roughly 1703.37/month.
	in := piLoan("a", 300000, 0.055, 360, 0)
	got := requiredMinRepayment(in)
	if got < 1700 || got > 1707 {
		t.Errorf("requiredMinRepayment() = %v, want ~1703.37", got)
	}
}

func TestRequiredMinRepayment_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		in   core.LoanInput
		want float64
	}{
		{name: "zero term pays off immediately", in: piLoan("a", 5000, 0.05, 0, 0), want: 5000},
		{name: "negative term pays off immediately", in: piLoan("a", 5000, 0.05, -12, 0), want: 5000},
		{name: "zero rate pays off immediately", in: piLoan("a", 5000, 0, 60, 0), want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := requiredMinRepayment(tt.in); got != tt.want {
				t.Errorf("requiredMinRepayment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequiredMinRepayment_InterestOnly(t *testing.T) {
	in := piLoan("a", 200000, 0.06, 300, 0)
	in.InterestOnly = true

	// Interest-only minimum is the monthly interest on the full principal.
	if got, want := requiredMinRepayment(in), 1000.0; got != want {
		t.Errorf("requiredMinRepayment() = %v, want %v", got, want)
	}

	// The offset balance reduces the interest-bearing principal.
	in.OffsetBalance = 50000
	if got, want := requiredMinRepayment(in), 750.0; got != want {
		t.Errorf("requiredMinRepayment() with offset = %v, want %v", got, want)
	}

	// An offset covering the whole principal leaves nothing to charge.
	in.OffsetBalance = 250000
	if got := requiredMinRepayment(in); got != 0 {
		t.Errorf("requiredMinRepayment() with full offset = %v, want 0", got)
	}
}

func TestNormalizeMinRepayment_RepairsUnderAmortizing(t *testing.T) {
	// Supplied minimum is far below the ~1703 the amortization formula
	// requires and must be replaced.
	in := piLoan("a", 300000, 0.055, 360, 1000)
	got := normalizeMinRepayment(in)
	if got < 1700 || got > 1707 {
		t.Errorf("normalizeMinRepayment() = %v, want repaired to ~1703.37", got)
	}

	// A supplied minimum within 95% of the required value is kept as-is.
	in.MinRepayment = 1650
	if got := normalizeMinRepayment(in); got != 1650 {
		t.Errorf("normalizeMinRepayment() = %v, want supplied 1650 kept", got)
	}
}

func TestNormalizeMinRepayment_CadenceConversion(t *testing.T) {
	// 450/week is 1950/month, comfortably above the required minimum.
	in := piLoan("a", 300000, 0.055, 360, 450)
	in.MinRepaymentFreq = core.Weekly
	got := normalizeMinRepayment(in)
	want := core.Weekly.ToMonthly(450)
	if got != want {
		t.Errorf("normalizeMinRepayment() = %v, want %v", got, want)
	}
}

func TestNormalizeMinRepayment_RaisesInterestOnly(t *testing.T) {
	in := piLoan("a", 200000, 0.06, 300, 400)
	in.InterestOnly = true
	if got, want := normalizeMinRepayment(in), 1000.0; got != want {
		t.Errorf("normalizeMinRepayment() = %v, want raised to %v", got, want)
	}

	// A supplied minimum above the interest charge is kept.
	in.MinRepayment = 1200
	if got := normalizeMinRepayment(in); got != 1200 {
		t.Errorf("normalizeMinRepayment() = %v, want supplied 1200 kept", got)
	}
}

func TestNormalizeLoans(t *testing.T) {
	cap := 10000.0
	loans := []core.LoanInput{
		piLoan("home", 300000, 0.055, 360, 1800),
		{
			ID:                  "inv",
			Name:                "Investment loan",
			Category:            core.CategoryInvestment,
			Principal:           150000,
			AnnualRate:          0.065,
			RateType:            core.RateFixed,
			InterestOnly:        true,
			RemainingTermMonths: 240,
			MinRepayment:        200,
			MinRepaymentFreq:    core.Weekly,
			AnnualExtraCap:      &cap,
		},
	}

	sims, err := normalizeLoans(loans)
	if err != nil {
		t.Fatalf("normalizeLoans() error = %v", err)
	}
	if len(sims) != 2 {
		t.Fatalf("normalizeLoans() returned %d loans, want 2", len(sims))
	}

	if sims[0].minMonthly != 1800 {
		t.Errorf("home minMonthly = %v, want 1800", sims[0].minMonthly)
	}
	if sims[0].hasCap {
		t.Error("home loan should not carry a cap")
	}
	if sims[0].original != 300000 || sims[0].principal != 300000 {
		t.Errorf("home principal = %v/%v, want 300000", sims[0].original, sims[0].principal)
	}

	if !sims[1].hasCap || sims[1].annualCap != 10000 {
		t.Errorf("investment cap = %v (hasCap %v), want 10000", sims[1].annualCap, sims[1].hasCap)
	}
	// 200/week converts to ~866.67/month, above the 812.50 interest charge.
	if want := core.Weekly.ToMonthly(200); sims[1].minMonthly != want {
		t.Errorf("investment minMonthly = %v, want %v", sims[1].minMonthly, want)
	}
}

func TestNormalizeLoans_Errors(t *testing.T) {
	t.Run("invalid loan", func(t *testing.T) {
		bad := piLoan("a", 0, 0.05, 360, 100)
		if _, err := normalizeLoans([]core.LoanInput{bad}); err == nil {
			t.Error("normalizeLoans() expected error for zero principal")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		loans := []core.LoanInput{
			piLoan("a", 1000, 0.05, 12, 100),
			piLoan("a", 2000, 0.06, 24, 100),
		}
		if _, err := normalizeLoans(loans); err == nil {
			t.Error("normalizeLoans() expected error for duplicate id")
		}
	})
}
