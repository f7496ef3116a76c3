package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loan-advisor/domain"
	"loan-advisor/logger"
	"loan-advisor/money"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// Narrator turns computed figures into short prose for underwriters.
type Narrator interface {
	ExplainTerm(ctx context.Context, in TermExplanation) string
	NarrateReport(ctx context.Context, report domain.Report) string
}

// TermExplanation is what the narrator knows about a recommended term.
type TermExplanation struct {
	Amount       float64
	InterestRate float64
	Preference   string
	Top          domain.TermRecommendation
	Alternatives []domain.TermRecommendation
}

type AIService struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// NewAIService returns a narrator backed by the OpenAI chat API. With an
// empty apiKey every call uses the built-in fallback text.
func NewAIService(apiKey string) *AIService {
	return &AIService{
		apiKey:  apiKey,
		apiURL:  defaultOpenAIURL,
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithURL points the service at another chat-completions endpoint.
func (s *AIService) WithURL(url string) *AIService {
	s.apiURL = url
	return s
}

var preferenceText = map[string]string{
	"minimize_interest": "minimizing total interest cost",
	"minimize_payment":  "minimizing the monthly payment",
	"balanced":          "balancing monthly payment against total cost",
}

func (s *AIService) ExplainTerm(ctx context.Context, in TermExplanation) string {
	if !s.enabled {
		return fallbackTermExplanation(in)
	}

	preferenceDesc := preferenceText[in.Preference]
	if preferenceDesc == "" {
		preferenceDesc = in.Preference
	}

	var alternatives strings.Builder
	for _, alt := range in.Alternatives {
		fmt.Fprintf(&alternatives, "- %d months: $%.2f per month, $%.2f total interest\n",
			alt.TermMonths, alt.MonthlyPayment, alt.TotalInterest)
	}

	prompt := fmt.Sprintf(`Explain this business loan term recommendation to a small business owner.

LOAN:
- Amount: $%.2f
- Annual interest rate: %.2f%%
- Recommended term: %d months (%.1f years)
- Monthly payment: $%.2f
- Total interest: $%.2f
- Borrower preference: %s

ALTERNATIVES CONSIDERED:
%s
Write 3-4 plain sentences explaining why this term fits the preference and what the trade-off between monthly payment and total interest is.`,
		in.Amount, in.InterestRate, in.Top.TermMonths, float64(in.Top.TermMonths)/12.0,
		in.Top.MonthlyPayment, in.Top.TotalInterest, preferenceDesc, alternatives.String())

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("term explanation fell back to template", "error", err)
		return fallbackTermExplanation(in)
	}
	return explanation
}

func (s *AIService) NarrateReport(ctx context.Context, report domain.Report) string {
	if !s.enabled {
		return fallbackReportNarrative(report)
	}

	var years strings.Builder
	for _, r := range report.DSCR {
		fmt.Fprintf(&years, "- %s: EBITDA $%.0f, total debt service $%.0f, DSCR %s\n",
			r.YearLabel, r.EBITDA, r.TotalDebtService, formatDSCR(r))
	}

	loanLine := "No new loan requested."
	if report.NewLoan != nil {
		loanLine = fmt.Sprintf("New loan: $%.0f at %.2f%% over %d months, $%.2f per month.",
			report.NewLoan.FinancedPrincipal, report.NewLoan.AnnualRatePercent,
			report.NewLoan.TermMonths, report.NewLoan.MonthlyPayment)
	}

	prompt := fmt.Sprintf(`Summarize this debt service coverage analysis for a credit memo.

BUSINESS: %s (%s)
%s
EXISTING DEBT: $%.0f per month across %d obligations.
MINIMUM DSCR: %.2f

COVERAGE BY PERIOD:
%s
Write 3-4 factual sentences on whether cash flow covers debt service and which periods are weakest. Do not invent figures.`,
		report.Loan.BusinessName, report.Loan.Purpose, loanLine,
		report.Portfolio.TotalMonthlyPayment, len(report.Debts), report.MinimumDSCR, years.String())

	narrative, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("report narrative fell back to template", "error", err)
		return fallbackReportNarrative(report)
	}
	return narrative
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: "gpt-4o-mini",
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a commercial credit analyst. You write short, precise, plain-English explanations of loan terms and cash flow coverage for small business owners and underwriters. You only use the figures you are given.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}

func fallbackTermExplanation(in TermExplanation) string {
	top := in.Top
	switch in.Preference {
	case "minimize_interest":
		return fmt.Sprintf("A %d-month term keeps total interest to $%.2f while the monthly payment of $%.2f stays within your limit. Shorter terms cost less overall but need more cash each month.",
			top.TermMonths, top.TotalInterest, top.MonthlyPayment)
	case "minimize_payment":
		return fmt.Sprintf("A %d-month term brings the monthly payment down to $%.2f, leaving more room in monthly cash flow. The longer term raises total interest to $%.2f.",
			top.TermMonths, top.MonthlyPayment, top.TotalInterest)
	default:
		return fmt.Sprintf("A %d-month term balances a monthly payment of $%.2f against $%.2f of total interest, weighing both monthly affordability and the overall cost of the loan.",
			top.TermMonths, top.MonthlyPayment, top.TotalInterest)
	}
}

func fallbackReportNarrative(report domain.Report) string {
	if len(report.DSCR) == 0 {
		return "No financial periods were provided, so debt service coverage could not be assessed."
	}

	var b strings.Builder
	if report.NewLoan != nil {
		fmt.Fprintf(&b, "The requested $%s loan adds $%s of annual debt service. ",
			formatWhole(report.NewLoan.FinancedPrincipal), formatWhole(report.NewLoan.AnnualizedLoanPayment))
	}

	var below []string
	for _, r := range report.DSCR {
		if !r.MeetsMinimum {
			below = append(below, r.YearLabel.String())
		}
	}

	if len(below) == 0 {
		fmt.Fprintf(&b, "Cash flow meets the %.2fx minimum coverage in every period reviewed.", report.MinimumDSCR)
	} else {
		fmt.Fprintf(&b, "Coverage falls below the %.2fx minimum in %s.", report.MinimumDSCR, strings.Join(below, ", "))
	}
	return b.String()
}

func formatDSCR(r domain.DSCRYearResult) string {
	switch r.Status {
	case domain.DSCRNoDebtService:
		return "n/a (no debt service)"
	case domain.DSCRZeroCashFlow:
		return "n/a (no cash flow)"
	case domain.DSCRNegativeCashFlow:
		return "n/a (negative cash flow)"
	case domain.DSCRUndefined:
		return "n/a (figures out of range)"
	}
	return fmt.Sprintf("%.2fx", r.DSCR)
}

func formatWhole(v float64) string {
	return fmt.Sprintf("%.0f", money.RoundWhole(v))
}
