package service

const (
	MaxDebtsPerRequest = 50 // maximum debts in one analysis or summary
	MaxYearsPerRequest = 10 // maximum fiscal periods in one analysis

	// Term recommendation limits
	MaxTermRangeMonths      = 120 // widest term range evaluated in one request (10 years)
	MaxRecommendationsShown = 3   // alternatives handed to the narrator
)
