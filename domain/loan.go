package domain

import "loan-advisor/money"

// LoanTerms describes a prospective loan. A missing rate or term can be
// filled from the purpose defaults before amortizing.
type LoanTerms struct {
	Principal          money.Amount   `json:"principal"`
	AnnualRatePercent  money.Optional `json:"annualInterestRatePercent"`
	TermMonths         int            `json:"termMonths"`
	AmortizationMonths int            `json:"amortizationMonths,omitempty"`
	DownPayment        money.Amount   `json:"downPayment,omitempty"`
	Purpose            string         `json:"purpose,omitempty"`
}

type SchedulePeriod struct {
	Period        int     `json:"period"`
	PrincipalPaid float64 `json:"principalPaid"`
	InterestPaid  float64 `json:"interestPaid"`
	TotalPaid     float64 `json:"totalPaid"`
	EndingBalance float64 `json:"endingBalance"`
}

// Amortization holds unrounded results; round only when presenting.
type Amortization struct {
	FinancedPrincipal     float64          `json:"financedPrincipal"`
	AnnualRatePercent     float64          `json:"annualInterestRatePercent"`
	TermMonths            int              `json:"termMonths"`
	AmortizationMonths    int              `json:"amortizationMonths"`
	MonthlyPayment        float64          `json:"monthlyPayment"`
	AnnualizedLoanPayment float64          `json:"annualizedLoanPayment"`
	TotalInterest         float64          `json:"totalInterest"`
	TotalPaid             float64          `json:"totalPaid"`
	BalloonPayment        float64          `json:"balloonPayment"`
	Schedule              []SchedulePeriod `json:"schedule"`
}

// LoanDefaults are the rate and term used for a loan purpose when the
// borrower leaves them blank.
type LoanDefaults struct {
	AnnualRatePercent  float64 `json:"annualInterestRatePercent" yaml:"rate"`
	TermMonths         int     `json:"termMonths" yaml:"term_months"`
	AmortizationMonths int     `json:"amortizationMonths,omitempty" yaml:"amortization_months"`
}
