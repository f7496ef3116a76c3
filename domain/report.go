package domain

import (
	"time"

	"loan-advisor/money"
)

type LoanInfo struct {
	BusinessName       string         `json:"businessName"`
	OwnerName          string         `json:"ownerName,omitempty"`
	Industry           string         `json:"industry,omitempty"`
	Purpose            string         `json:"purpose"`
	RequestedAmount    money.Amount   `json:"requestedAmount"`
	DownPayment        money.Amount   `json:"downPayment,omitempty"`
	AnnualRatePercent  money.Optional `json:"annualInterestRatePercent"`
	TermMonths         int            `json:"termMonths,omitempty"`
	AmortizationMonths int            `json:"amortizationMonths,omitempty"`
}

// AnalysisInput is the raw, user-entered data of one analysis session.
type AnalysisInput struct {
	ID    string           `json:"id,omitempty"`
	Loan  LoanInfo         `json:"loan"`
	Years []YearFinancials `json:"years"`
	Debts []DebtObligation `json:"debts"`
}

type Report struct {
	ID        string               `json:"id"`
	Loan      LoanInfo             `json:"loan"`
	NewLoan   *Amortization        `json:"newLoan,omitempty"`
	Years     []YearFinancials     `json:"years"`
	DSCR      []DSCRYearResult     `json:"dscr"`
	Debts     []DebtObligation     `json:"debts"`
	Portfolio DebtPortfolioSummary `json:"portfolio"`

	MinimumDSCR float64   `json:"minimumDscr"`
	Narrative   string    `json:"narrative,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
