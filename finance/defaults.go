package finance

import (
	"strings"

	"loan-advisor/domain"
	"loan-advisor/money"
)

// PurposeDefaults maps a loan purpose to the rate and term assumed when the
// borrower leaves them blank. It is passed to each call, never read from
// package state.
type PurposeDefaults map[string]domain.LoanDefaults

// DefaultPurposeDefaults returns the built-in table.
func DefaultPurposeDefaults() PurposeDefaults {
	return PurposeDefaults{
		"working_capital": {AnnualRatePercent: 9.5, TermMonths: 36},
		"equipment":       {AnnualRatePercent: 8.0, TermMonths: 60},
		"expansion":       {AnnualRatePercent: 8.5, TermMonths: 84},
		"acquisition":     {AnnualRatePercent: 8.75, TermMonths: 120},
		"refinance":       {AnnualRatePercent: 8.0, TermMonths: 120},
		"real_estate":     {AnnualRatePercent: 7.25, TermMonths: 120, AmortizationMonths: 300},
		"sba_7a":          {AnnualRatePercent: 10.5, TermMonths: 120},
	}
}

// PurposeKey normalizes a purpose label: "Working Capital" -> "working_capital".
func PurposeKey(purpose string) string {
	key := strings.ToLower(strings.TrimSpace(purpose))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}

func (d PurposeDefaults) Lookup(purpose string) (domain.LoanDefaults, bool) {
	def, ok := d[PurposeKey(purpose)]
	return def, ok
}

// Apply fills the blank rate, term and amortization of terms from the
// defaults for terms.Purpose. Values the borrower supplied are kept.
func (d PurposeDefaults) Apply(terms domain.LoanTerms) domain.LoanTerms {
	def, ok := d.Lookup(terms.Purpose)
	if !ok {
		return terms
	}
	if !terms.AnnualRatePercent.Valid {
		terms.AnnualRatePercent = money.Some(def.AnnualRatePercent)
	}
	if terms.TermMonths == 0 {
		terms.TermMonths = def.TermMonths
		if terms.AmortizationMonths == 0 {
			terms.AmortizationMonths = def.AmortizationMonths
		}
	}
	return terms
}

// TermsFromLoan extracts the prospective loan terms from the loan request.
func TermsFromLoan(info domain.LoanInfo) domain.LoanTerms {
	return domain.LoanTerms{
		Principal:          info.RequestedAmount,
		AnnualRatePercent:  info.AnnualRatePercent,
		TermMonths:         info.TermMonths,
		AmortizationMonths: info.AmortizationMonths,
		DownPayment:        info.DownPayment,
		Purpose:            info.Purpose,
	}
}
