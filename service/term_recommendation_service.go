package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"loan-amortizer/domain"
	"loan-amortizer/repository"
)

type TermRecommendationService struct {
	cache  repository.CacheRepository
	logger *slog.Logger
}

// NewTermRecommendationService builds the service. A nil cache disables
// memoisation of recommendation results.
func NewTermRecommendationService(cache repository.CacheRepository, logger *slog.Logger) *TermRecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TermRecommendationService{cache: cache, logger: logger}
}

type termScenario struct {
	term          uint32
	payment       float64
	totalInterest float64
}

// RecommendTerm evaluates every term in [MinTermYears, MaxTermYears], drops
// those whose yearly payment exceeds MaxYearlyPayment or is not finite and
// ranks the rest by the requested preference.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {

	if err := validateRecommendationInput(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	key := recommendationKey(input)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	scenarios := make([]termScenario, 0, input.MaxTermYears-input.MinTermYears+1)
	for term := input.MinTermYears; term <= input.MaxTermYears; term++ {
		scenario, err := evaluateTerm(input, term)
		if err != nil {
			return domain.TermRecommendationResult{}, err
		}
		if !isFinite(scenario.payment, scenario.totalInterest) {
			s.logger.DebugContext(ctx, "term skipped, result not finite", "term_years", term)
			continue
		}
		scenarios = append(scenarios, scenario)
	}

	if len(scenarios) == 0 {
		return domain.TermRecommendationResult{}, &RequestError{
			Field: "annual_interest_rate",
			Msg:   "no term in range yields a finite yearly payment",
		}
	}
	shortest, longest := scenarios[0], scenarios[len(scenarios)-1]

	recommendations := []domain.TermRecommendation{}
	for _, scenario := range scenarios {
		if scenario.payment > input.MaxYearlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermYears:     scenario.term,
			YearlyPayment: roundToCents(scenario.payment),
			TotalInterest: roundToCents(scenario.totalInterest),
			Score:         calculateScore(scenario, shortest, longest, input),
			Reason:        generateReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, &RequestError{
			Field: "max_yearly_payment",
			Msg:   "no term in range keeps the yearly payment under the maximum",
		}
	}

	// Stable so that equal scores keep the shorter term first.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > MaxAlternatives+1 {
		recommendations = recommendations[:MaxAlternatives+1]
	}

	s.logger.DebugContext(ctx, "term recommended",
		"term_years", recommendations[0].TermYears,
		"score", recommendations[0].Score,
		"preference", input.Preference,
	)

	result := domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermYears,
		Recommendations: recommendations,
	}
	s.store(ctx, key, result)
	return result, nil
}

func (s *TermRecommendationService) lookup(ctx context.Context, key string) (domain.TermRecommendationResult, bool) {
	if s.cache == nil {
		return domain.TermRecommendationResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.TermRecommendationResult{}, false
	}
	var result domain.TermRecommendationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key, "error", err)
		return domain.TermRecommendationResult{}, false
	}
	return result, true
}

func (s *TermRecommendationService) store(ctx context.Context, key string, result domain.TermRecommendationResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.WarnContext(ctx, "encoding recommendation for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil {
		s.logger.WarnContext(ctx, "caching recommendation", "key", key, "error", err)
	}
}

// recommendationKey hashes the exact bit patterns of the float inputs so
// that nearby values never share an entry.
func recommendationKey(input domain.TermRecommendationInput) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%x|%x|%d|%d|%x|%s",
		math.Float64bits(input.Principal),
		math.Float64bits(input.AnnualInterestRate),
		input.MinTermYears,
		input.MaxTermYears,
		math.Float64bits(input.MaxYearlyPayment),
		input.Preference,
	)
	return fmt.Sprintf("recommendation:%016x", h.Sum64())
}

func validateRecommendationInput(input domain.TermRecommendationInput) error {
	// The loan gate reports principal, rate and a zero minimum term first.
	if _, err := domain.NewLoan(input.Principal, input.AnnualInterestRate, input.MinTermYears); err != nil {
		return err
	}
	if input.MaxTermYears < input.MinTermYears {
		return &RequestError{Field: "max_term_years", Msg: "must not be less than min_term_years"}
	}
	if input.MaxTermYears > MaxTermYears {
		return &RequestError{Field: "max_term_years", Msg: fmt.Sprintf("must not exceed %d", MaxTermYears)}
	}
	if input.MaxTermYears-input.MinTermYears > MaxTermRangeYears {
		return &RequestError{Field: "max_term_years", Msg: fmt.Sprintf("range must not exceed %d years", MaxTermRangeYears)}
	}
	if input.MaxYearlyPayment <= 0 {
		return &RequestError{Field: "max_yearly_payment", Msg: "must be positive"}
	}
	switch input.Preference {
	case PreferenceMinimizeInterest, PreferenceMinimizePayment, PreferenceBalanced:
	default:
		return &RequestError{Field: "preference", Msg: fmt.Sprintf("unknown preference %q", input.Preference)}
	}
	return nil
}

func evaluateTerm(input domain.TermRecommendationInput, term uint32) (termScenario, error) {
	loan, err := domain.NewLoan(input.Principal, input.AnnualInterestRate, term)
	if err != nil {
		return termScenario{}, err
	}
	return termScenario{
		term:          term,
		payment:       loan.YearlyPayment(),
		totalInterest: loan.AmortizationSchedule().TotalInterest(),
	}, nil
}

// calculateScore maps a scenario onto 0-10 per criterion, using the shortest
// and longest terms of the range as the bounds, then weights by preference.
func calculateScore(
	scenario, shortest, longest termScenario,
	input domain.TermRecommendationInput,
) float64 {
	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange := longest.totalInterest - shortest.totalInterest; interestRange > 0 {
		interestScore = 10.0 * (1.0 - (scenario.totalInterest-shortest.totalInterest)/interestRange)
	}
	if paymentRange := input.MaxYearlyPayment - longest.payment; paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (scenario.payment-longest.payment)/paymentRange)
	}
	if termRange := longest.term - shortest.term; termRange > 0 {
		termScore = 10.0 * (1.0 - float64(scenario.term-shortest.term)/float64(termRange))
	}

	var score float64
	switch input.Preference {
	case PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundToCents(score)
}

func generateReason(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "Term chosen to minimize the total interest paid"
	case PreferenceMinimizePayment:
		return "Term chosen to minimize the yearly payment"
	case PreferenceBalanced:
		return "Best balance between yearly payment and total cost"
	}
	return "Recommendation based on the given parameters"
}
