package finance

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 100.0
	MaxTermMonths   = 600 // 50 years

	// MaxAmount bounds any single figure in an analysis so sums stay finite.
	MaxAmount = MaxLoanAmount * 1000

	// DefaultMinimumDSCR is the coverage most lenders ask for.
	DefaultMinimumDSCR = 1.25

	// internalPlaces bounds decimal growth during schedule simulation. It is
	// far below a cent, so it never shows in presented values.
	internalPlaces = 10
)
