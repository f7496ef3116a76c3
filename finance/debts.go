package finance

import (
	"strings"

	"loan-advisor/domain"
	"loan-advisor/money"
)

// NormalizeCategory maps free-form category labels onto the known set.
// Anything unrecognized is OTHER_DEBT.
func NormalizeCategory(c domain.DebtCategory) domain.DebtCategory {
	key := strings.ToUpper(strings.TrimSpace(string(c)))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)
	for _, known := range domain.DebtCategories {
		if key == string(known) {
			return known
		}
	}
	return domain.CategoryOtherDebt
}

// AggregateDebts totals the debt ledger and groups it by category. Credit
// balance and limit only include revolving categories; utilization is not
// applicable when there is no revolving limit.
func AggregateDebts(debts []domain.DebtObligation) domain.DebtPortfolioSummary {
	var summary domain.DebtPortfolioSummary
	byCategory := make(map[domain.DebtCategory]*domain.DebtCategoryGroup, len(domain.DebtCategories))

	for _, debt := range debts {
		debt.Category = NormalizeCategory(debt.Category)

		payment := debt.MonthlyPayment.Float()
		balance := debt.OutstandingBalance.Float()

		summary.TotalMonthlyPayment += payment
		summary.TotalOutstandingBalance += balance
		if debt.Category.Revolving() {
			summary.TotalCreditBalance += balance
			summary.TotalCreditLimit += debt.CreditLimit.Float()
		}

		group, ok := byCategory[debt.Category]
		if !ok {
			group = &domain.DebtCategoryGroup{Category: debt.Category}
			byCategory[debt.Category] = group
		}
		group.Debts = append(group.Debts, debt)
		group.MonthlyPayment += payment
		group.OutstandingBalance += balance
	}

	summary.TotalAnnualPayment = summary.TotalMonthlyPayment * 12
	summary.CreditUtilization = money.None()
	if summary.TotalCreditLimit > 0 {
		summary.CreditUtilization = money.Some(summary.TotalCreditBalance / summary.TotalCreditLimit)
	}

	summary.Groups = make([]domain.DebtCategoryGroup, 0, len(byCategory))
	for _, category := range domain.DebtCategories {
		if group, ok := byCategory[category]; ok {
			summary.Groups = append(summary.Groups, *group)
		}
	}
	return summary
}
