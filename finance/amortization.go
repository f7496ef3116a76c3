package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"loan-advisor/domain"
)

var twelve = decimal.NewFromInt(12)

// Amortize computes the fixed monthly payment for terms and simulates the
// monthly schedule. The payment amortizes the financed principal over
// AmortizationMonths; the schedule runs for TermMonths, so a shorter term
// leaves a balloon balance.
func Amortize(terms domain.LoanTerms) (domain.Amortization, error) {
	if err := validateTerms(terms); err != nil {
		return domain.Amortization{}, err
	}

	amortMonths := terms.AmortizationMonths
	if amortMonths == 0 {
		amortMonths = terms.TermMonths
	}

	financed := decimal.NewFromFloat(terms.Principal.Float()).
		Sub(decimal.NewFromFloat(terms.DownPayment.Float()))
	monthlyRate := decimal.NewFromFloat(terms.AnnualRatePercent.Value).Div(decimal.NewFromInt(1200))
	payment := monthlyPayment(financed, monthlyRate, amortMonths)

	schedule := make([]domain.SchedulePeriod, 0, terms.TermMonths)
	balance := financed
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero

	for period := 1; period <= terms.TermMonths && balance.IsPositive(); period++ {
		interest := balance.Mul(monthlyRate).Round(internalPlaces)
		principal := payment.Sub(interest)
		// The last amortizing period retires whatever is left, so drift
		// never leaves a residue.
		if period >= amortMonths || principal.GreaterThan(balance) {
			principal = balance
		}
		if principal.IsNegative() {
			principal = decimal.Zero
		}

		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		paid := principal.Add(interest)
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(paid)

		schedule = append(schedule, domain.SchedulePeriod{
			Period:        period,
			PrincipalPaid: principal.InexactFloat64(),
			InterestPaid:  interest.InexactFloat64(),
			TotalPaid:     paid.InexactFloat64(),
			EndingBalance: balance.InexactFloat64(),
		})
	}

	return domain.Amortization{
		FinancedPrincipal:     financed.InexactFloat64(),
		AnnualRatePercent:     terms.AnnualRatePercent.Value,
		TermMonths:            terms.TermMonths,
		AmortizationMonths:    amortMonths,
		MonthlyPayment:        payment.InexactFloat64(),
		AnnualizedLoanPayment: payment.Mul(twelve).InexactFloat64(),
		TotalInterest:         totalInterest.InexactFloat64(),
		TotalPaid:             totalPaid.InexactFloat64(),
		BalloonPayment:        balance.InexactFloat64(),
		Schedule:              schedule,
	}, nil
}

func monthlyPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}
	r := monthlyRate.InexactFloat64()
	growth := math.Pow(1+r, float64(months))
	return principal.Mul(decimal.NewFromFloat(r * growth / (growth - 1)))
}

func validateTerms(terms domain.LoanTerms) error {
	principal := terms.Principal.Float()
	down := terms.DownPayment.Float()

	if !finite(principal) {
		return invalidTerms("principal", "must be a finite number")
	}
	if !finite(down) {
		return invalidTerms("downPayment", "must be a finite number")
	}
	if terms.AnnualRatePercent.Valid && !finite(terms.AnnualRatePercent.Value) {
		return invalidTerms("annualInterestRatePercent", "must be a finite number")
	}
	if principal <= 0 {
		return invalidTerms("principal", "must be greater than zero")
	}
	if principal > MaxLoanAmount {
		return invalidTerms("principal", "exceeds the maximum loan amount")
	}
	if down < 0 {
		return invalidTerms("downPayment", "cannot be negative")
	}
	if down >= principal {
		return invalidTerms("downPayment", "must be less than the principal")
	}
	if !terms.AnnualRatePercent.Valid {
		return invalidTerms("annualInterestRatePercent", "is required")
	}
	if rate := terms.AnnualRatePercent.Value; rate < 0 || rate > MaxInterestRate {
		return invalidTerms("annualInterestRatePercent", "must be between 0 and 100")
	}
	if terms.TermMonths <= 0 {
		return invalidTerms("termMonths", "must be greater than zero")
	}
	if terms.TermMonths > MaxTermMonths {
		return invalidTerms("termMonths", "exceeds 600 months")
	}
	if terms.AmortizationMonths < 0 {
		return invalidTerms("amortizationMonths", "cannot be negative")
	}
	if terms.AmortizationMonths > MaxTermMonths {
		return invalidTerms("amortizationMonths", "exceeds 600 months")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AnnualSchedule folds a monthly schedule into rows of twelve periods. The
// last row holds the remaining months of a partial year.
func AnnualSchedule(schedule []domain.SchedulePeriod) []domain.SchedulePeriod {
	rows := make([]domain.SchedulePeriod, 0, (len(schedule)+11)/12)
	for start := 0; start < len(schedule); start += 12 {
		end := min(start+12, len(schedule))

		principal, interest, paid := decimal.Zero, decimal.Zero, decimal.Zero
		for _, p := range schedule[start:end] {
			principal = principal.Add(decimal.NewFromFloat(p.PrincipalPaid))
			interest = interest.Add(decimal.NewFromFloat(p.InterestPaid))
			paid = paid.Add(decimal.NewFromFloat(p.TotalPaid))
		}

		rows = append(rows, domain.SchedulePeriod{
			Period:        start/12 + 1,
			PrincipalPaid: principal.InexactFloat64(),
			InterestPaid:  interest.InexactFloat64(),
			TotalPaid:     paid.InexactFloat64(),
			EndingBalance: schedule[end-1].EndingBalance,
		})
	}
	return rows
}
