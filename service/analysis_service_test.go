package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/money"
	"loan-advisor/repository"
)

type MockAnalysisRepository struct {
	records  map[string]repository.AnalysisRecord
	GetCalls int
}

func NewMockAnalysisRepository() *MockAnalysisRepository {
	return &MockAnalysisRepository{records: make(map[string]repository.AnalysisRecord)}
}

func (m *MockAnalysisRepository) Save(_ context.Context, rec repository.AnalysisRecord) error {
	if existing, ok := m.records[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MockAnalysisRepository) Get(_ context.Context, id string) (repository.AnalysisRecord, error) {
	m.GetCalls++
	rec, ok := m.records[id]
	if !ok {
		return repository.AnalysisRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func sampleAnalysisInput() domain.AnalysisInput {
	return domain.AnalysisInput{
		Loan: domain.LoanInfo{
			BusinessName:      "Harbor Bakery LLC",
			Purpose:           "equipment",
			RequestedAmount:   100000,
			AnnualRatePercent: money.Some(7.5),
			TermMonths:        120,
		},
		Years: []domain.YearFinancials{{
			YearLabel: domain.YearLabel{Year: 2023},
			Input: domain.YearFinancialsInput{
				Revenue:           500000,
				COGS:              200000,
				OperatingExpenses: 150000,
				Depreciation:      20000,
			},
		}},
		Debts: []domain.DebtObligation{
			{Category: domain.CategoryRealEstate, MonthlyPayment: 2000, OutstandingBalance: 150000},
			{ID: "card-1", Category: domain.CategoryCreditCard, MonthlyPayment: 1000, OutstandingBalance: 8000, CreditLimit: 20000},
		},
	}
}

func newAnalysisService(repo repository.AnalysisRepository, narrator Narrator) *AnalysisService {
	return NewAnalysisService(repo, repository.NewMemoryCache(time.Minute, time.Minute), narrator, finance.DefaultReportOptions())
}

func TestAnalysisService_Create(t *testing.T) {
	repo := NewMockAnalysisRepository()
	narrator := &MockNarrator{}
	svc := newAnalysisService(repo, narrator)

	in := sampleAnalysisInput()
	report, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ID == "" {
		t.Fatal("expected an analysis id")
	}
	if report.Debts[0].ID == "" || report.Debts[1].ID != "card-1" {
		t.Errorf("debt ids not assigned or overwritten: %q, %q", report.Debts[0].ID, report.Debts[1].ID)
	}
	if in.Debts[0].ID != "" {
		t.Error("caller's debts were modified")
	}
	if report.Narrative != "narrated report" || narrator.ReportCalls != 1 {
		t.Error("expected the narrative to be attached")
	}
	if report.CreatedAt.IsZero() {
		t.Error("expected a creation time")
	}
	if report.DSCR[0].Status != domain.DSCRComputed || !report.DSCR[0].MeetsMinimum {
		t.Errorf("unexpected coverage: %+v", report.DSCR[0])
	}

	rec := repo.records[report.ID]
	if rec.Input.Loan.BusinessName != "Harbor Bakery LLC" {
		t.Error("raw input not stored")
	}
}

func TestAnalysisService_GetUsesCache(t *testing.T) {
	repo := NewMockAnalysisRepository()
	svc := newAnalysisService(repo, &MockNarrator{})

	created, err := svc.Create(context.Background(), sampleAnalysisInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if repo.GetCalls != 0 {
		t.Errorf("expected a cache hit, repository was read %d times", repo.GetCalls)
	}
	if got.ID != created.ID || got.DSCR[0].DSCR != created.DSCR[0].DSCR {
		t.Errorf("cached report differs from the created one")
	}
}

func TestAnalysisService_GetFallsBackToRepository(t *testing.T) {
	repo := NewMockAnalysisRepository()
	repo.records["stored"] = repository.AnalysisRecord{
		ID:     "stored",
		Report: domain.Report{ID: "stored", MinimumDSCR: 1.25},
	}
	svc := newAnalysisService(repo, &MockNarrator{})

	report, err := svc.Get(context.Background(), "stored")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if report.ID != "stored" || repo.GetCalls != 1 {
		t.Errorf("expected repository read, got %+v after %d calls", report, repo.GetCalls)
	}

	if _, err := svc.Get(context.Background(), "stored"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.GetCalls != 1 {
		t.Error("second read should be served from cache")
	}
}

func TestAnalysisService_GetNotFound(t *testing.T) {
	svc := newAnalysisService(NewMockAnalysisRepository(), &MockNarrator{})

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisService_Recompute(t *testing.T) {
	repo := NewMockAnalysisRepository()
	svc := newAnalysisService(repo, &MockNarrator{})
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleAnalysisInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := sampleAnalysisInput()
	in.Debts = nil
	second, err := svc.Recompute(ctx, first.ID, in)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("recompute changed the id: %s -> %s", first.ID, second.ID)
	}
	if second.Portfolio.TotalMonthlyPayment != 0 {
		t.Errorf("report not rebuilt from new input: %+v", second.Portfolio)
	}
	if first.Portfolio.TotalMonthlyPayment != 3000 {
		t.Error("previous report was mutated")
	}
	if second.DSCR[0].DSCR <= first.DSCR[0].DSCR {
		t.Errorf("dropping debts should raise coverage: %v -> %v", first.DSCR[0].DSCR, second.DSCR[0].DSCR)
	}

	cached, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cached.Portfolio.TotalMonthlyPayment != 0 {
		t.Error("cache still holds the stale report")
	}

	if _, err := svc.Recompute(ctx, "missing", in); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisService_InvalidInput(t *testing.T) {
	svc := newAnalysisService(NewMockAnalysisRepository(), &MockNarrator{})

	in := sampleAnalysisInput()
	in.Years[0].Year = 1500
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, finance.ErrInvalidAnalysis) {
		t.Errorf("expected ErrInvalidAnalysis, got %v", err)
	}

	in = sampleAnalysisInput()
	in.Debts = make([]domain.DebtObligation, MaxDebtsPerRequest+1)
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysisService_SummarizeDebts(t *testing.T) {
	svc := newAnalysisService(NewMockAnalysisRepository(), &MockNarrator{})

	summary, err := svc.SummarizeDebts(sampleAnalysisInput().Debts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalMonthlyPayment != 3000 || summary.TotalAnnualPayment != 36000 {
		t.Errorf("unexpected totals: %+v", summary)
	}
	if !summary.CreditUtilization.Valid || summary.CreditUtilization.Value != 0.4 {
		t.Errorf("unexpected utilization: %+v", summary.CreditUtilization)
	}

	if _, err := svc.SummarizeDebts([]domain.DebtObligation{{MonthlyPayment: -5}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysisService_RecomputeKeepsCreationTime(t *testing.T) {
	repo := NewMockAnalysisRepository()
	svc := newAnalysisService(repo, &MockNarrator{})
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }
	first, err := svc.Create(ctx, sampleAnalysisInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := created.Add(72 * time.Hour)
	svc.now = func() time.Time { return updated }
	second, err := svc.Recompute(ctx, first.ID, sampleAnalysisInput())
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if !second.CreatedAt.Equal(created) {
		t.Errorf("report created at = %v, want %v", second.CreatedAt, created)
	}
	if !second.UpdatedAt.Equal(updated) {
		t.Errorf("report updated at = %v, want %v", second.UpdatedAt, updated)
	}
	rec := repo.records[first.ID]
	if !rec.CreatedAt.Equal(second.CreatedAt) || !rec.UpdatedAt.Equal(second.UpdatedAt) {
		t.Errorf("record times %v/%v disagree with report %v/%v",
			rec.CreatedAt, rec.UpdatedAt, second.CreatedAt, second.UpdatedAt)
	}
}
