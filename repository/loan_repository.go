package repository

import (
	"context"

	"loan-advisor/domain"
)

type LoanRepository interface {
	Save(ctx context.Context, calc domain.LoanCalculation) error
}
