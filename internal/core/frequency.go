// Package core provides the domain model for the repayment planner: loan
// records, planner settings, repayment frequencies and the plan result model.
//
// This file contains the frequency-conversion utility. All monetary inputs
// carry a cadence and are converted to a common monthly figure before any
// simulation runs.
package core

import "errors"

const (
	Weekly      Frequency = "WEEKLY"
	Fortnightly Frequency = "FORTNIGHTLY"
	Monthly     Frequency = "MONTHLY"
	Quarterly   Frequency = "QUARTERLY"
	Annual      Frequency = "ANNUAL"
)

// Frequency is the cadence of a recurring monetary amount.
type Frequency string

// ErrInvalidFrequency is returned for cadences outside the supported set.
var ErrInvalidFrequency = errors.New("invalid frequency")

// periodsPerYear uses the standard period counts for each cadence.
var periodsPerYear = map[Frequency]float64{
	Weekly:      52,
	Fortnightly: 26,
	Monthly:     12,
	Quarterly:   4,
	Annual:      1,
}

// Validate returns an error if the frequency is not supported.
func (f Frequency) Validate() error {
	if _, ok := periodsPerYear[f]; !ok {
		return ErrInvalidFrequency
	}
	return nil
}

// PerYear returns the number of periods of this frequency in a year.
func (f Frequency) PerYear() float64 {
	return periodsPerYear[f]
}

// ToMonthly converts an amount paid at this frequency into its monthly
// equivalent. Unknown frequencies convert to zero; callers are expected to
// have validated the cadence first.
func (f Frequency) ToMonthly(amount float64) float64 {
	return amount * periodsPerYear[f] / 12
}

// ToAnnual converts an amount paid at this frequency into its yearly
// equivalent.
func (f Frequency) ToAnnual(amount float64) float64 {
	return amount * periodsPerYear[f]
}
