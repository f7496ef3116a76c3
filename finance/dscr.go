package finance

import "loan-advisor/domain"

// ComputeDSCR computes debt service coverage for one period.
//
// A full year counts twelve months of existing payments and, when the
// prospective loan is active, its full annualized payment. A year-to-date
// period ending at month m counts m months of both; without m nothing is
// counted. The ratio is 0 whenever it cannot be expressed as a positive
// finite number, and Status says why. Non-finite inputs are reported as 0
// with DSCRUndefined.
func ComputeDSCR(in domain.DSCRInput) domain.DSCRYearResult {
	result := domain.DSCRYearResult{
		YearLabel: in.Label,
		EBITDA:    in.EBITDA,
	}

	loanPayment := 0.0
	if in.LoanActive {
		loanPayment = in.AnnualizedLoanPayment
	}

	if in.Label.YearToDate {
		months := in.Label.AsOfMonth
		if months < 0 || months > 12 {
			months = 0
		}
		result.DebtService = in.MonthlyDebtService * float64(months)
		result.AnnualizedLoanPayment = loanPayment * float64(months) / 12
	} else {
		result.DebtService = in.MonthlyDebtService * 12
		result.AnnualizedLoanPayment = loanPayment
	}

	result.TotalDebtService = result.DebtService + result.AnnualizedLoanPayment

	switch {
	case !finite(in.EBITDA) || !finite(result.TotalDebtService):
		clearNonFinite(&result)
		result.Status = domain.DSCRUndefined
	case result.TotalDebtService <= 0:
		result.Status = domain.DSCRNoDebtService
	case in.EBITDA == 0:
		result.Status = domain.DSCRZeroCashFlow
	case in.EBITDA < 0:
		result.Status = domain.DSCRNegativeCashFlow
	default:
		ratio := in.EBITDA / result.TotalDebtService
		if !finite(ratio) {
			result.Status = domain.DSCRUndefined
			break
		}
		result.DSCR = ratio
		result.Status = domain.DSCRComputed
	}
	return result
}

func clearNonFinite(r *domain.DSCRYearResult) {
	for _, v := range []*float64{&r.EBITDA, &r.DebtService, &r.AnnualizedLoanPayment, &r.TotalDebtService} {
		if !finite(*v) {
			*v = 0
		}
	}
}
