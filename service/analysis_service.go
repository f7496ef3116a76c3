package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/logger"
	"loan-advisor/repository"
)

// AnalysisService owns analysis sessions: it stores the raw input and
// derives a fresh report from it on every change.
type AnalysisService struct {
	repo     repository.AnalysisRepository
	cache    repository.CacheRepository
	narrator Narrator
	opts     finance.ReportOptions
	now      func() time.Time
}

func NewAnalysisService(
	repo repository.AnalysisRepository,
	cache repository.CacheRepository,
	narrator Narrator,
	opts finance.ReportOptions,
) *AnalysisService {
	return &AnalysisService{
		repo:     repo,
		cache:    cache,
		narrator: narrator,
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new analysis and returns its report.
func (s *AnalysisService) Create(ctx context.Context, in domain.AnalysisInput) (domain.Report, error) {
	in.ID = uuid.NewString()
	return s.store(ctx, in, time.Time{})
}

// Get returns the stored report for id, from the cache when possible.
func (s *AnalysisService) Get(ctx context.Context, id string) (domain.Report, error) {
	key := repository.AnalysisCacheKey(id)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var report domain.Report
		err := json.Unmarshal([]byte(cached), &report)
		if err == nil {
			return report, nil
		}
		logger.FromContext(ctx).Warn("discarding unreadable cached report", "id", id, "error", err)
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).Warn("failed to evict cached report", "id", id, "error", err)
		}
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	s.cacheReport(ctx, rec.Report)
	return rec.Report, nil
}

// Recompute replaces the input of an existing analysis and builds a new
// report from it.
func (s *AnalysisService) Recompute(ctx context.Context, id string, in domain.AnalysisInput) (domain.Report, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	in.ID = id
	return s.store(ctx, in, existing.CreatedAt)
}

// SummarizeDebts aggregates a debt ledger without storing anything.
func (s *AnalysisService) SummarizeDebts(debts []domain.DebtObligation) (domain.DebtPortfolioSummary, error) {
	if err := validateDebts(debts); err != nil {
		return domain.DebtPortfolioSummary{}, err
	}
	return finance.AggregateDebts(debts), nil
}

// store assembles and persists a report. A zero createdAt marks a new
// analysis.
func (s *AnalysisService) store(ctx context.Context, in domain.AnalysisInput, createdAt time.Time) (domain.Report, error) {
	if len(in.Years) > MaxYearsPerRequest {
		return domain.Report{}, invalidInput("at most %d periods per analysis", MaxYearsPerRequest)
	}
	if err := validateDebts(in.Debts); err != nil {
		return domain.Report{}, err
	}

	in.Debts = append([]domain.DebtObligation(nil), in.Debts...)
	for i := range in.Debts {
		if in.Debts[i].ID == "" {
			in.Debts[i].ID = uuid.NewString()
		}
	}

	report, err := finance.AssembleReport(in, s.opts)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	report.CreatedAt = createdAt
	report.UpdatedAt = now
	report.Narrative = s.narrator.NarrateReport(ctx, report)

	rec := repository.AnalysisRecord{
		ID:        in.ID,
		Input:     in,
		Report:    report,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return domain.Report{}, err
	}

	s.cacheReport(ctx, report)
	logger.FromContext(ctx).Info("analysis stored",
		"id", report.ID,
		"periods", len(report.DSCR),
		"debts", len(report.Debts),
	)
	return report, nil
}

func (s *AnalysisService) cacheReport(ctx context.Context, report domain.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to encode report for cache", "id", report.ID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, repository.AnalysisCacheKey(report.ID), string(data)); err != nil {
		logger.FromContext(ctx).Warn("failed to cache report", "id", report.ID, "error", err)
	}
}

func validateDebts(debts []domain.DebtObligation) error {
	if len(debts) > MaxDebtsPerRequest {
		return invalidInput("at most %d debts per request", MaxDebtsPerRequest)
	}
	for i, debt := range debts {
		if debt.MonthlyPayment < 0 || debt.OutstandingBalance < 0 || debt.CreditLimit < 0 {
			return invalidInput("debts[%d] has a negative amount", i)
		}
	}
	return nil
}
