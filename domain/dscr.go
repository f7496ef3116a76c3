package domain

type DSCRStatus string

const (
	DSCRComputed         DSCRStatus = "ok"
	DSCRNoDebtService    DSCRStatus = "no_debt_service"
	DSCRZeroCashFlow     DSCRStatus = "zero_cash_flow"
	DSCRNegativeCashFlow DSCRStatus = "negative_cash_flow"

	// DSCRUndefined covers figures too large to produce a finite ratio.
	DSCRUndefined DSCRStatus = "undefined"
)

type DSCRInput struct {
	Label              YearLabel
	EBITDA             float64
	MonthlyDebtService float64

	// AnnualizedLoanPayment is the full-year payment of the prospective
	// loan; LoanActive says whether it applies to this period.
	AnnualizedLoanPayment float64
	LoanActive            bool
}

type DSCRYearResult struct {
	YearLabel
	EBITDA                float64    `json:"ebitda"`
	DebtService           float64    `json:"debtService"`
	AnnualizedLoanPayment float64    `json:"annualizedLoanPayment"`
	TotalDebtService      float64    `json:"totalDebtService"`
	DSCR                  float64    `json:"dscr"`
	Status                DSCRStatus `json:"status"`
	MeetsMinimum          bool       `json:"meetsMinimum"`
}
