package domain

import (
	"fmt"
	"time"

	"loan-advisor/money"
)

// YearLabel identifies a fiscal year or a year-to-date period ending at
// AsOfMonth (1-12).
type YearLabel struct {
	Year       int  `json:"year"`
	YearToDate bool `json:"yearToDate,omitempty"`
	AsOfMonth  int  `json:"asOfMonth,omitempty"`
}

func (l YearLabel) String() string {
	if !l.YearToDate {
		return fmt.Sprintf("%d", l.Year)
	}
	if l.AsOfMonth >= 1 && l.AsOfMonth <= 12 {
		return fmt.Sprintf("%d YTD (%s)", l.Year, time.Month(l.AsOfMonth).String()[:3])
	}
	return fmt.Sprintf("%d YTD", l.Year)
}

type YearFinancialsInput struct {
	Revenue              money.Amount `json:"revenue"`
	COGS                 money.Amount `json:"cogs"`
	OperatingExpenses    money.Amount `json:"operatingExpenses"`
	NonRecurringIncome   money.Amount `json:"nonRecurringIncome"`
	NonRecurringExpenses money.Amount `json:"nonRecurringExpenses"`
	Depreciation         money.Amount `json:"depreciation"`
	Amortization         money.Amount `json:"amortization"`
	Interest             money.Amount `json:"interest"`
	Taxes                money.Amount `json:"taxes"`

	// AddBacks are discretionary adjustments such as owner compensation
	// normalization.
	AddBacks money.Amount `json:"addBacks"`

	AdjustedEBITDA money.Optional `json:"adjustedEbitda"`
	NetIncome      money.Optional `json:"netIncome"`
}

type YearFinancialsSummary struct {
	Revenue              float64 `json:"revenue"`
	COGS                 float64 `json:"cogs"`
	GrossProfit          float64 `json:"grossProfit"`
	OperatingExpenses    float64 `json:"operatingExpenses"`
	Depreciation         float64 `json:"depreciation"`
	Amortization         float64 `json:"amortization"`
	EBITDA               float64 `json:"ebitda"`
	AddBacks             float64 `json:"addBacks"`
	AdjustedEBITDA       float64 `json:"adjustedEbitda"`
	AdjustedOverridden   bool    `json:"adjustedEbitdaOverridden"`
	NonRecurringIncome   float64 `json:"nonRecurringIncome"`
	NonRecurringExpenses float64 `json:"nonRecurringExpenses"`
	Interest             float64 `json:"interest"`
	Taxes                float64 `json:"taxes"`
	NetIncome            float64 `json:"netIncome"`
	NetIncomeSupplied    bool    `json:"netIncomeSupplied"`
}

type YearFinancials struct {
	YearLabel
	Input   YearFinancialsInput   `json:"input"`
	Summary YearFinancialsSummary `json:"summary"`

	// ExcludeNewLoan leaves the prospective loan out of this year's debt
	// service.
	ExcludeNewLoan bool `json:"excludeNewLoan,omitempty"`
}
