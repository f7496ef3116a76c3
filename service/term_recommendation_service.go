package service

import (
	"context"
	"sort"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/logger"
	"loan-advisor/money"
)

type TermRecommendationService struct {
	loanService *LoanService
	narrator    Narrator
}

func NewTermRecommendationService(loanService *LoanService, narrator Narrator) *TermRecommendationService {
	return &TermRecommendationService{
		loanService: loanService,
		narrator:    narrator,
	}
}

var preferences = map[string]bool{
	"minimize_interest": true,
	"minimize_payment":  true,
	"balanced":          true,
}

// RecommendTerm evaluates every term in the requested range and ranks the
// ones that fit the payment limit and, when EBITDA is given, the minimum
// coverage.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := validateRecommendation(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	rate, ok := s.resolveRate(input)
	if !ok {
		return domain.TermRecommendationResult{}, invalidInput("interestRate is required for purpose %q", input.Purpose)
	}

	minDSCR := input.MinDSCR
	if minDSCR <= 0 {
		minDSCR = finance.DefaultMinimumDSCR
	}

	recommendations := []domain.TermRecommendation{}
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		result, err := s.loanService.Quote(domain.LoanTerms{
			Principal:         input.Amount,
			AnnualRatePercent: money.Some(rate),
			TermMonths:        term,
		})
		if err != nil {
			logger.FromContext(ctx).Warn("failed to quote term", "term", term, "error", err)
			continue
		}

		if result.MonthlyPayment > input.MaxMonthlyPayment.Float() {
			continue
		}

		dscr := money.None()
		if input.AnnualEBITDA.Valid {
			coverage := finance.ComputeDSCR(domain.DSCRInput{
				EBITDA:                input.AnnualEBITDA.Value,
				MonthlyDebtService:    input.ExistingMonthlyDebt.Float(),
				AnnualizedLoanPayment: result.AnnualizedLoanPayment,
				LoanActive:            true,
			})
			if coverage.Status != domain.DSCRComputed || coverage.DSCR < minDSCR {
				continue
			}
			dscr = money.Some(money.RoundCents(coverage.DSCR))
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: money.RoundCents(result.MonthlyPayment),
			TotalInterest:  money.RoundCents(result.TotalInterest),
			DSCR:           dscr,
			Score:          calculateScore(result, input, rate, term),
			Reason:         generateReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoViableTerm
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	alternatives := recommendations[1:min(len(recommendations), MaxRecommendationsShown+1)]
	recommendations[0].Reason = s.narrator.ExplainTerm(ctx, TermExplanation{
		Amount:       input.Amount.Float(),
		InterestRate: rate,
		Preference:   input.Preference,
		Top:          recommendations[0],
		Alternatives: alternatives,
	})

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

func (s *TermRecommendationService) resolveRate(input domain.TermRecommendationInput) (float64, bool) {
	if input.InterestRate.Valid {
		return input.InterestRate.Value, true
	}
	if def, ok := s.loanService.Defaults().Lookup(input.Purpose); ok {
		return def.AnnualRatePercent, true
	}
	return 0, false
}

func validateRecommendation(input domain.TermRecommendationInput) error {
	if input.Amount <= 0 {
		return invalidInput("amount must be greater than zero")
	}
	if input.InterestRate.Valid && (input.InterestRate.Value < 0 || input.InterestRate.Value > finance.MaxInterestRate) {
		return invalidInput("interestRate must be between 0 and %.0f", finance.MaxInterestRate)
	}
	if input.MinTermMonths <= 0 || input.MaxTermMonths <= 0 {
		return invalidInput("term bounds must be greater than zero")
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return invalidInput("minTermMonths is greater than maxTermMonths")
	}
	if input.MaxTermMonths > finance.MaxTermMonths {
		return invalidInput("maxTermMonths exceeds the limit of %d months", finance.MaxTermMonths)
	}
	// Bound the work done per request.
	if input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths {
		return invalidInput("term range exceeds %d months", MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return invalidInput("maxMonthlyPayment must be greater than zero")
	}
	if input.ExistingMonthlyDebt < 0 {
		return invalidInput("existingMonthlyDebt cannot be negative")
	}
	if !preferences[input.Preference] {
		return invalidInput("unknown preference %q", input.Preference)
	}
	return nil
}

// calculateScore rates a term from 0 to 10, weighting interest, payment
// and term length by preference.
func calculateScore(result domain.Amortization, input domain.TermRecommendationInput, rate float64, term int) float64 {
	amount := input.Amount.Float()

	// Simple-interest bounds over the range, used only for normalization.
	maxPossibleInterest := amount * (rate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := amount * (rate / 100) * float64(input.MinTermMonths) / 12

	interestRange := maxPossibleInterest - minPossibleInterest
	floorPayment := amount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment.Float() - floorPayment

	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-floorPayment)/paymentRange)
	}
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case "minimize_interest":
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case "minimize_payment":
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case "balanced":
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return money.RoundCents(score)
}

func generateReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Term chosen to minimize total interest cost"
	case "minimize_payment":
		return "Term chosen to minimize the monthly payment"
	case "balanced":
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the supplied parameters"
}
