package domain

import "time"

// LoanCalculation is one stored run of the loan calculator.
type LoanCalculation struct {
	ID           string       `json:"id"`
	Terms        LoanTerms    `json:"terms"`
	Result       Amortization `json:"result"`
	CalculatedAt time.Time    `json:"calculatedAt"`
}
