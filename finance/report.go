package finance

import (
	"fmt"
	"math"

	"loan-advisor/domain"
	"loan-advisor/money"
)

type ReportOptions struct {
	Defaults    PurposeDefaults
	MinimumDSCR float64

	// UseAdjustedEBITDA makes adjusted EBITDA the coverage numerator.
	UseAdjustedEBITDA bool
}

func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Defaults:    DefaultPurposeDefaults(),
		MinimumDSCR: DefaultMinimumDSCR,
	}
}

// AssembleReport builds a fresh report from raw analysis input. Nothing in
// the returned report shares memory with in. A zero requested amount means
// there is no prospective loan to test.
func AssembleReport(in domain.AnalysisInput, opts ReportOptions) (domain.Report, error) {
	if opts.MinimumDSCR <= 0 {
		opts.MinimumDSCR = DefaultMinimumDSCR
	}
	if err := validateAnalysis(in); err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{
		ID:          in.ID,
		Loan:        in.Loan,
		MinimumDSCR: opts.MinimumDSCR,
	}

	annualizedLoanPayment := 0.0
	if in.Loan.RequestedAmount > 0 {
		terms := opts.Defaults.Apply(TermsFromLoan(in.Loan))
		amortization, err := Amortize(terms)
		if err != nil {
			return domain.Report{}, err
		}
		report.NewLoan = &amortization
		annualizedLoanPayment = amortization.AnnualizedLoanPayment

		report.Loan.AnnualRatePercent = terms.AnnualRatePercent
		report.Loan.TermMonths = terms.TermMonths
		report.Loan.AmortizationMonths = amortization.AmortizationMonths
	}

	report.Debts = make([]domain.DebtObligation, len(in.Debts))
	for i, debt := range in.Debts {
		debt.Category = NormalizeCategory(debt.Category)
		report.Debts[i] = debt
	}
	report.Portfolio = AggregateDebts(report.Debts)

	report.Years = make([]domain.YearFinancials, 0, len(in.Years))
	report.DSCR = make([]domain.DSCRYearResult, 0, len(in.Years))
	for _, year := range in.Years {
		year.Summary = Summarize(year.Input)
		report.Years = append(report.Years, year)

		ebitda := year.Summary.EBITDA
		if opts.UseAdjustedEBITDA {
			ebitda = year.Summary.AdjustedEBITDA
		}

		result := ComputeDSCR(domain.DSCRInput{
			Label:                 year.YearLabel,
			EBITDA:                ebitda,
			MonthlyDebtService:    report.Portfolio.TotalMonthlyPayment,
			AnnualizedLoanPayment: annualizedLoanPayment,
			LoanActive:            report.NewLoan != nil && !year.ExcludeNewLoan,
		})
		result.MeetsMinimum = meetsMinimum(result, opts.MinimumDSCR)
		report.DSCR = append(report.DSCR, result)
	}

	return report, nil
}

// meetsMinimum treats a period with no debt service as covered.
func meetsMinimum(r domain.DSCRYearResult, minimum float64) bool {
	switch r.Status {
	case domain.DSCRNoDebtService:
		return true
	case domain.DSCRComputed:
		return r.DSCR >= minimum
	}
	return false
}

func validateAnalysis(in domain.AnalysisInput) error {
	if in.Loan.RequestedAmount < 0 {
		return invalidAnalysis("loan.requestedAmount", "cannot be negative")
	}
	if err := checkAmount("loan.requestedAmount", in.Loan.RequestedAmount.Float()); err != nil {
		return err
	}
	if err := checkAmount("loan.downPayment", in.Loan.DownPayment.Float()); err != nil {
		return err
	}

	seen := make(map[string]bool, len(in.Years))
	for i, year := range in.Years {
		field := fmt.Sprintf("years[%d]", i)
		if year.Year < 1900 || year.Year > 2200 {
			return invalidAnalysis(field+".year", "is out of range")
		}
		if year.YearToDate && (year.AsOfMonth < 0 || year.AsOfMonth > 12) {
			return invalidAnalysis(field+".asOfMonth", "must be between 1 and 12")
		}
		if !year.YearToDate && year.AsOfMonth != 0 {
			return invalidAnalysis(field+".asOfMonth", "is only allowed on year-to-date periods")
		}
		if err := validateYearAmounts(field+".input", year.Input); err != nil {
			return err
		}
		label := year.YearLabel.String()
		if seen[label] {
			return invalidAnalysis(field, fmt.Sprintf("duplicates period %s", label))
		}
		seen[label] = true
	}

	for i, debt := range in.Debts {
		field := fmt.Sprintf("debts[%d]", i)
		if debt.MonthlyPayment < 0 {
			return invalidAnalysis(field+".monthlyPayment", "cannot be negative")
		}
		if debt.OutstandingBalance < 0 {
			return invalidAnalysis(field+".outstandingBalance", "cannot be negative")
		}
		if debt.CreditLimit < 0 {
			return invalidAnalysis(field+".creditLimit", "cannot be negative")
		}
		for name, v := range map[string]money.Amount{
			"monthlyPayment":     debt.MonthlyPayment,
			"outstandingBalance": debt.OutstandingBalance,
			"originalLoanAmount": debt.OriginalLoanAmount,
			"creditLimit":        debt.CreditLimit,
		} {
			if err := checkAmount(field+"."+name, v.Float()); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateYearAmounts(field string, in domain.YearFinancialsInput) error {
	amounts := []struct {
		name  string
		value float64
	}{
		{"revenue", in.Revenue.Float()},
		{"cogs", in.COGS.Float()},
		{"operatingExpenses", in.OperatingExpenses.Float()},
		{"nonRecurringIncome", in.NonRecurringIncome.Float()},
		{"nonRecurringExpenses", in.NonRecurringExpenses.Float()},
		{"depreciation", in.Depreciation.Float()},
		{"amortization", in.Amortization.Float()},
		{"interest", in.Interest.Float()},
		{"taxes", in.Taxes.Float()},
		{"addBacks", in.AddBacks.Float()},
		{"adjustedEbitda", in.AdjustedEBITDA.Value},
		{"netIncome", in.NetIncome.Value},
	}
	for _, a := range amounts {
		if err := checkAmount(field+"."+a.name, a.value); err != nil {
			return err
		}
	}
	return nil
}

// checkAmount rejects figures that are not finite or large enough for
// sums of them to overflow.
func checkAmount(field string, v float64) error {
	if !finite(v) {
		return invalidAnalysis(field, "must be a finite number")
	}
	if math.Abs(v) > MaxAmount {
		return invalidAnalysis(field, "exceeds the maximum amount")
	}
	return nil
}
