// Package render turns an assembled report into a printable summary.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"loan-advisor/domain"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the report as a Markdown document. Dollar figures are
// rounded to whole dollars here and nowhere earlier.
func Markdown(r domain.Report) string {
	var b strings.Builder

	title := r.Loan.BusinessName
	if title == "" {
		title = "Loan analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	writeLoan(&b, r)
	writeYears(&b, r.Years)
	writeCoverage(&b, r)
	writeDebts(&b, r.Portfolio)

	if r.Narrative != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n", escape(r.Narrative))
	}
	return b.String()
}

// HTML renders the report as a standalone HTML page.
func HTML(r domain.Report) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(r.Loan.BusinessName))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func writeLoan(b *strings.Builder, r domain.Report) {
	b.WriteString("## Loan request\n\n")
	fmt.Fprintf(b, "- Purpose: %s\n", escape(orDash(r.Loan.Purpose)))
	if r.Loan.OwnerName != "" {
		fmt.Fprintf(b, "- Owner: %s\n", escape(r.Loan.OwnerName))
	}
	if r.Loan.Industry != "" {
		fmt.Fprintf(b, "- Industry: %s\n", escape(r.Loan.Industry))
	}

	if r.NewLoan == nil {
		b.WriteString("- No new loan requested\n\n")
		return
	}
	loan := r.NewLoan
	fmt.Fprintf(b, "- Amount financed: %s\n", Dollars(loan.FinancedPrincipal))
	fmt.Fprintf(b, "- Rate: %.2f%%\n", loan.AnnualRatePercent)
	fmt.Fprintf(b, "- Term: %d months", loan.TermMonths)
	if loan.AmortizationMonths != loan.TermMonths {
		fmt.Fprintf(b, " (%d-month amortization)", loan.AmortizationMonths)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "- Monthly payment: %s\n", Dollars(loan.MonthlyPayment))
	fmt.Fprintf(b, "- Annual debt service: %s\n", Dollars(loan.AnnualizedLoanPayment))
	if loan.BalloonPayment > 0 {
		fmt.Fprintf(b, "- Balloon at maturity: %s\n", Dollars(loan.BalloonPayment))
	}
	b.WriteString("\n")
}

func writeYears(b *strings.Builder, years []domain.YearFinancials) {
	if len(years) == 0 {
		return
	}
	b.WriteString("## Cash flow\n\n")
	b.WriteString("| Period | Revenue | Gross profit | EBITDA | Adjusted EBITDA | Net income |\n")
	b.WriteString("|---|--:|--:|--:|--:|--:|\n")
	for _, y := range years {
		s := y.Summary
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			y.YearLabel, Dollars(s.Revenue), Dollars(s.GrossProfit), Dollars(s.EBITDA),
			Dollars(s.AdjustedEBITDA), Dollars(s.NetIncome))
	}
	b.WriteString("\n")
}

func writeCoverage(b *strings.Builder, r domain.Report) {
	if len(r.DSCR) == 0 {
		return
	}
	fmt.Fprintf(b, "## Debt service coverage (minimum %.2fx)\n\n", r.MinimumDSCR)
	b.WriteString("| Period | EBITDA | Existing debt | New loan | Total | DSCR | Meets minimum |\n")
	b.WriteString("|---|--:|--:|--:|--:|--:|---|\n")
	for _, d := range r.DSCR {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			d.YearLabel, Dollars(d.EBITDA), Dollars(d.DebtService), Dollars(d.AnnualizedLoanPayment),
			Dollars(d.TotalDebtService), Ratio(d), yesNo(d.MeetsMinimum))
	}
	b.WriteString("\n")
}

func writeDebts(b *strings.Builder, p domain.DebtPortfolioSummary) {
	if len(p.Groups) == 0 {
		return
	}
	b.WriteString("## Existing debt\n\n")
	b.WriteString("| Category | Lender | Monthly payment | Balance |\n")
	b.WriteString("|---|---|--:|--:|\n")
	for _, g := range p.Groups {
		for _, d := range g.Debts {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				categoryTitle(g.Category), escape(orDash(d.LenderOrDescription)),
				Dollars(d.MonthlyPayment.Float()), Dollars(d.OutstandingBalance.Float()))
		}
	}
	fmt.Fprintf(b, "| **Total** | | **%s** | **%s** |\n\n",
		Dollars(p.TotalMonthlyPayment), Dollars(p.TotalOutstandingBalance))

	if p.CreditUtilization.Valid {
		fmt.Fprintf(b, "Revolving credit utilization: %.1f%%\n\n", p.CreditUtilization.Value*100)
	}
}

// Dollars formats v as whole dollars with thousands separators.
func Dollars(v float64) string {
	s := decimal.NewFromFloat(v).Round(0).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + "$" + s
}

// Ratio formats a coverage result, spelling out why there is no ratio.
func Ratio(d domain.DSCRYearResult) string {
	switch d.Status {
	case domain.DSCRNoDebtService:
		return "n/a"
	case domain.DSCRZeroCashFlow:
		return "none"
	case domain.DSCRNegativeCashFlow:
		return "negative"
	case domain.DSCRUndefined:
		return "undefined"
	}
	return fmt.Sprintf("%.2fx", d.DSCR)
}

func categoryTitle(c domain.DebtCategory) string {
	switch c {
	case domain.CategoryRealEstate:
		return "Real estate"
	case domain.CategoryCreditCard:
		return "Credit card"
	case domain.CategoryVehicleEquipment:
		return "Vehicle / equipment"
	case domain.CategoryLineOfCredit:
		return "Line of credit"
	}
	return "Other"
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var mdEscaper = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;", "*", `\*`, "_", `\_`)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
