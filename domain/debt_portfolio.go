package domain

import "loan-advisor/money"

type DebtCategory string

const (
	CategoryRealEstate       DebtCategory = "REAL_ESTATE"
	CategoryCreditCard       DebtCategory = "CREDIT_CARD"
	CategoryVehicleEquipment DebtCategory = "VEHICLE_EQUIPMENT"
	CategoryLineOfCredit     DebtCategory = "LINE_OF_CREDIT"
	CategoryOtherDebt        DebtCategory = "OTHER_DEBT"
)

// DebtCategories lists categories in presentation order.
var DebtCategories = []DebtCategory{
	CategoryRealEstate,
	CategoryCreditCard,
	CategoryVehicleEquipment,
	CategoryLineOfCredit,
	CategoryOtherDebt,
}

// Revolving reports whether balances in this category count toward
// credit utilization.
func (c DebtCategory) Revolving() bool {
	return c == CategoryCreditCard || c == CategoryLineOfCredit
}

type DebtObligation struct {
	ID                  string       `json:"id"`
	Category            DebtCategory `json:"category"`
	LenderOrDescription string       `json:"lenderOrDescription"`
	MonthlyPayment      money.Amount `json:"monthlyPayment"`
	OutstandingBalance  money.Amount `json:"outstandingBalance"`
	OriginalLoanAmount  money.Amount `json:"originalLoanAmount"`
	CreditLimit         money.Amount `json:"creditLimit"`
	Notes               string       `json:"notes,omitempty"`
}

type DebtCategoryGroup struct {
	Category           DebtCategory     `json:"category"`
	Debts              []DebtObligation `json:"debts"`
	MonthlyPayment     float64          `json:"monthlyPayment"`
	OutstandingBalance float64          `json:"outstandingBalance"`
}

type DebtPortfolioSummary struct {
	TotalMonthlyPayment     float64 `json:"totalMonthlyPayment"`
	TotalAnnualPayment      float64 `json:"totalAnnualPayment"`
	TotalOutstandingBalance float64 `json:"totalOutstandingBalance"`
	TotalCreditBalance      float64 `json:"totalCreditBalance"`
	TotalCreditLimit        float64 `json:"totalCreditLimit"`

	// CreditUtilization is null when there is no revolving credit limit.
	CreditUtilization money.Optional      `json:"creditUtilization"`
	Groups            []DebtCategoryGroup `json:"groups"`
}
