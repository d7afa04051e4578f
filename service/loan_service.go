package service

import (
	"context"
	"fmt"
	"log/slog"

	"loan-amortizer/domain"
)

type LoanService struct {
	logger *slog.Logger
}

func NewLoanService(logger *slog.Logger) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{logger: logger}
}

// CalculatePayment returns the yearly payment for the input. Validation
// failures are returned as *domain.LoanError, terms above MaxTermYears as
// *RequestError. Overflowing inputs yield NaN or Inf values, not an error.
func (s *LoanService) CalculatePayment(
	ctx context.Context,
	input domain.LoanInput,
) (domain.PaymentResult, error) {

	loan, err := s.newLoan(ctx, input)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	payment := loan.YearlyPayment()
	total := payment * float64(loan.TermYears())

	return domain.PaymentResult{
		Input:         input,
		YearlyPayment: payment,
		TotalPayment:  roundToCents(total),
		TotalInterest: roundToCents(total - loan.Principal()),
	}, nil
}

// CalculateSchedule returns the full amortization schedule for the input,
// computed fresh on every call. Errors as for CalculatePayment.
func (s *LoanService) CalculateSchedule(
	ctx context.Context,
	input domain.LoanInput,
) (domain.ScheduleResult, error) {

	loan, err := s.newLoan(ctx, input)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	schedule := loan.AmortizationSchedule()
	return domain.ScheduleResult{
		Input:          input,
		YearlyPayment:  loan.YearlyPayment(),
		Entries:        schedule,
		TotalPrincipal: roundToCents(schedule.TotalPrincipal()),
		TotalInterest:  roundToCents(schedule.TotalInterest()),
		TotalPayment:   roundToCents(schedule.TotalPaid()),
	}, nil
}

// newLoan runs the domain gate first so its errors keep precedence, then
// applies the host term bound.
func (s *LoanService) newLoan(ctx context.Context, input domain.LoanInput) (domain.Loan, error) {
	loan, err := domain.NewLoan(input.Principal, input.AnnualInterestRate, input.TermYears)
	if err != nil {
		s.logger.DebugContext(ctx, "loan rejected", "error", err)
		return domain.Loan{}, err
	}
	if input.TermYears > MaxTermYears {
		s.logger.DebugContext(ctx, "loan rejected", "term_years", input.TermYears)
		return domain.Loan{}, &RequestError{Field: "term_years", Msg: fmt.Sprintf("must not exceed %d", MaxTermYears)}
	}
	return loan, nil
}
