package domain

// LoanInput is the request shape shared by the HTTP API and the CLI.
type LoanInput struct {
	Principal          float64 `json:"principal"`
	AnnualInterestRate float64 `json:"annual_interest_rate"`
	TermYears          uint32  `json:"term_years"`
}

// PaymentResult carries the raw yearly payment plus totals rounded to cents.
type PaymentResult struct {
	Input         LoanInput `json:"input"`
	YearlyPayment float64   `json:"yearly_payment"`
	TotalPayment  float64   `json:"total_payment"`
	TotalInterest float64   `json:"total_interest"`
}

// ScheduleResult carries the unrounded schedule plus totals rounded to cents.
type ScheduleResult struct {
	Input          LoanInput            `json:"input"`
	YearlyPayment  float64              `json:"yearly_payment"`
	Entries        AmortizationSchedule `json:"entries"`
	TotalPrincipal float64              `json:"total_principal"`
	TotalInterest  float64              `json:"total_interest"`
	TotalPayment   float64              `json:"total_payment"`
}

type TermRecommendationInput struct {
	Principal          float64 `json:"principal"`
	AnnualInterestRate float64 `json:"annual_interest_rate"`
	MinTermYears       uint32  `json:"min_term_years"`
	MaxTermYears       uint32  `json:"max_term_years"`
	MaxYearlyPayment   float64 `json:"max_yearly_payment"`
	Preference         string  `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TermRecommendation struct {
	TermYears     uint32  `json:"term_years"`
	YearlyPayment float64 `json:"yearly_payment"`
	TotalInterest float64 `json:"total_interest"`
	Score         float64 `json:"score"`
	Reason        string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm uint32               `json:"recommended_term"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
