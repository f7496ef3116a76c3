package domain

import "loan-advisor/money"

type TermRecommendationInput struct {
	Amount            money.Amount   `json:"amount"`
	InterestRate      money.Optional `json:"interestRate"`
	Purpose           string         `json:"purpose,omitempty"`
	MinTermMonths     int            `json:"minTermMonths"`
	MaxTermMonths     int            `json:"maxTermMonths"`
	MaxMonthlyPayment money.Amount   `json:"maxMonthlyPayment"`
	Preference        string         `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"

	// With AnnualEBITDA set, terms whose pro-forma DSCR falls below MinDSCR
	// are dropped.
	AnnualEBITDA        money.Optional `json:"annualEbitda"`
	ExistingMonthlyDebt money.Amount   `json:"existingMonthlyDebt"`
	MinDSCR             float64        `json:"minDscr,omitempty"`
}

type TermRecommendation struct {
	TermMonths     int            `json:"termMonths"`
	MonthlyPayment float64        `json:"monthlyPayment"`
	TotalInterest  float64        `json:"totalInterest"`
	DSCR           money.Optional `json:"dscr"`
	Score          float64        `json:"score"`
	Reason         string         `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
