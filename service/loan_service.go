package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/logger"
	"loan-advisor/repository"
)

type LoanService struct {
	repo     repository.LoanRepository
	defaults finance.PurposeDefaults
	now      func() time.Time
}

// NewLoanService creates a new LoanService. Blank rates and terms are
// filled from defaults by purpose.
func NewLoanService(repo repository.LoanRepository, defaults finance.PurposeDefaults) *LoanService {
	if defaults == nil {
		defaults = finance.DefaultPurposeDefaults()
	}
	return &LoanService{repo: repo, defaults: defaults, now: time.Now}
}

// Defaults returns the purpose defaults the service resolves terms with.
func (s *LoanService) Defaults() finance.PurposeDefaults {
	return s.defaults
}

// CalculateLoan amortizes terms and records the calculation.
func (s *LoanService) CalculateLoan(ctx context.Context, terms domain.LoanTerms) (domain.Amortization, error) {
	terms = s.defaults.Apply(terms)

	result, err := finance.Amortize(terms)
	if err != nil {
		return domain.Amortization{}, err
	}

	calc := domain.LoanCalculation{
		ID:           uuid.NewString(),
		Terms:        terms,
		Result:       result,
		CalculatedAt: s.now().UTC(),
	}
	// Recording is not critical to the response.
	if err := s.repo.Save(ctx, calc); err != nil {
		logger.FromContext(ctx).Warn("failed to save loan calculation", "error", err)
	}

	return result, nil
}

// Quote amortizes terms without recording anything.
func (s *LoanService) Quote(terms domain.LoanTerms) (domain.Amortization, error) {
	return finance.Amortize(s.defaults.Apply(terms))
}
