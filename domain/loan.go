package domain

import "math"

// Loan is a validated fixed-rate, fixed-term loan with annual payments.
// The zero value is not usable; build one with NewLoan.
type Loan struct {
	principal          float64
	annualInterestRate float64
	termYears          uint32
}

// AmortizationEntry is one year of an amortization schedule.
type AmortizationEntry struct {
	Year             uint32  `json:"year"`
	Payment          float64 `json:"payment"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// AmortizationSchedule holds one entry per year, in increasing year order.
type AmortizationSchedule []AmortizationEntry

// NewLoan validates the parameters and returns the loan. Checks run in a fixed
// order and the first failing one is reported.
//
// annualInterestRate is in percentage points: 5.0 means 5% per year.
func NewLoan(principal, annualInterestRate float64, termYears uint32) (Loan, error) {
	if principal <= 0 {
		return Loan{}, &LoanError{Kind: KindInvalidPrincipal, Msg: msgInvalidPrincipal}
	}
	if annualInterestRate < 0 {
		return Loan{}, &LoanError{Kind: KindInvalidRate, Msg: msgInvalidRate}
	}
	if termYears == 0 {
		return Loan{}, &LoanError{Kind: KindInvalidTerm, Msg: msgInvalidTerm}
	}
	return Loan{
		principal:          principal,
		annualInterestRate: annualInterestRate,
		termYears:          termYears,
	}, nil
}

// Principal returns the amount borrowed.
func (l Loan) Principal() float64 { return l.principal }

// AnnualInterestRate returns the rate in percentage points per year.
func (l Loan) AnnualInterestRate() float64 { return l.annualInterestRate }

// TermYears returns the number of annual payments.
func (l Loan) TermYears() uint32 { return l.termYears }

func (l Loan) yearlyRate() float64 {
	return l.annualInterestRate / 100
}

// YearlyPayment returns the level annual payment that amortizes the principal
// over the term. No rounding is applied.
func (l Loan) YearlyPayment() float64 {
	r := l.yearlyRate()
	if r == 0 {
		return l.principal / float64(l.termYears)
	}
	growth := math.Pow(1+r, float64(l.termYears))
	return l.principal * r * growth / (growth - 1)
}

// AmortizationSchedule splits every yearly payment into interest and principal.
//
// The emitted RemainingBalance is clamped at zero, but the running balance used
// for the next year's interest is not.
func (l Loan) AmortizationSchedule() AmortizationSchedule {
	payment := l.YearlyPayment()
	r := l.yearlyRate()
	balance := l.principal

	schedule := make(AmortizationSchedule, 0, l.termYears)
	for year := uint32(1); year <= l.termYears; year++ {
		interest := balance * r
		principalPaid := payment - interest
		balance -= principalPaid

		schedule = append(schedule, AmortizationEntry{
			Year:             year,
			Payment:          payment,
			PrincipalPaid:    principalPaid,
			InterestPaid:     interest,
			RemainingBalance: math.Max(balance, 0),
		})
	}
	return schedule
}

// TotalPrincipal sums the principal portions of all entries.
func (s AmortizationSchedule) TotalPrincipal() float64 {
	var total float64
	for _, e := range s {
		total += e.PrincipalPaid
	}
	return total
}

// TotalInterest sums the interest portions of all entries.
func (s AmortizationSchedule) TotalInterest() float64 {
	var total float64
	for _, e := range s {
		total += e.InterestPaid
	}
	return total
}

// TotalPaid sums the payments of all entries.
func (s AmortizationSchedule) TotalPaid() float64 {
	var total float64
	for _, e := range s {
		total += e.Payment
	}
	return total
}

// ComputeYearlyPayment validates the parameters and returns the yearly payment.
func ComputeYearlyPayment(principal, annualInterestRate float64, termYears uint32) (float64, error) {
	loan, err := NewLoan(principal, annualInterestRate, termYears)
	if err != nil {
		return 0, err
	}
	return loan.YearlyPayment(), nil
}

// ComputeAmortizationSchedule validates the parameters and returns the full
// schedule.
func ComputeAmortizationSchedule(principal, annualInterestRate float64, termYears uint32) (AmortizationSchedule, error) {
	loan, err := NewLoan(principal, annualInterestRate, termYears)
	if err != nil {
		return nil, err
	}
	return loan.AmortizationSchedule(), nil
}
