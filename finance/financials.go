package finance

import "loan-advisor/domain"

// Summarize derives the summary metrics of one year. Absent fields count as
// zero. Supplied overrides for adjusted EBITDA and net income always win
// over the derived values.
func Summarize(in domain.YearFinancialsInput) domain.YearFinancialsSummary {
	s := domain.YearFinancialsSummary{
		Revenue:              in.Revenue.Float(),
		COGS:                 in.COGS.Float(),
		OperatingExpenses:    in.OperatingExpenses.Float(),
		Depreciation:         in.Depreciation.Float(),
		Amortization:         in.Amortization.Float(),
		AddBacks:             in.AddBacks.Float(),
		NonRecurringIncome:   in.NonRecurringIncome.Float(),
		NonRecurringExpenses: in.NonRecurringExpenses.Float(),
		Interest:             in.Interest.Float(),
		Taxes:                in.Taxes.Float(),
	}

	s.GrossProfit = s.Revenue - s.COGS
	// Depreciation and amortization are non-cash, so they are added back.
	s.EBITDA = s.GrossProfit - s.OperatingExpenses + s.Depreciation + s.Amortization

	s.AdjustedEBITDA = s.EBITDA + s.AddBacks
	if in.AdjustedEBITDA.Valid {
		s.AdjustedEBITDA = in.AdjustedEBITDA.Value
		s.AdjustedOverridden = true
	}

	if in.NetIncome.Valid {
		s.NetIncome = in.NetIncome.Value
		s.NetIncomeSupplied = true
	} else {
		s.NetIncome = s.EBITDA - s.Depreciation - s.Amortization - s.Interest - s.Taxes +
			s.NonRecurringIncome - s.NonRecurringExpenses
	}

	return s
}
