// Package finance holds the loan and cash-flow arithmetic behind the
// analysis report: amortization, yearly summaries, the debt ledger, debt
// service coverage and report assembly. Every function is pure; callers do
// their own I/O.
package finance
