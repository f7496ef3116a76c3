package repository

import (
	"context"
	"sync"

	"loan-advisor/domain"
)

// LoanRepositoryMemory is an in-memory implementation of LoanRepository.
// It keeps the most recent calculations up to a fixed limit.
type LoanRepositoryMemory struct {
	mu    sync.RWMutex
	data  []domain.LoanCalculation
	limit int
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory(limit int) *LoanRepositoryMemory {
	return &LoanRepositoryMemory{
		data:  []domain.LoanCalculation{},
		limit: limit,
	}
}

// Save stores the calculation in memory, dropping the oldest when full.
func (r *LoanRepositoryMemory) Save(_ context.Context, calc domain.LoanCalculation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, calc)
	if r.limit > 0 && len(r.data) > r.limit {
		r.data = r.data[len(r.data)-r.limit:]
	}
	return nil
}

// All returns a copy of the stored calculations, oldest first.
func (r *LoanRepositoryMemory) All() []domain.LoanCalculation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LoanCalculation, len(r.data))
	copy(out, r.data)
	return out
}
