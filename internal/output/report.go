package output

import (
	"time"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/shopspring/decimal"
)

// Report is everything a formatter renders.
type Report struct {
	Title     string
	Generated time.Time
	Currency  string
	Schedule  *domain.Schedule
	Paychecks []report.PaycheckLine
	Summary   report.Summary
}

// NewReport projects a schedule and the user's records into a report.
func NewReport(cfg *domain.Configuration, s *domain.Schedule, rec report.Records) *Report {
	return &Report{
		Title:     "Paycheck Bill Schedule",
		Generated: time.Now(),
		Currency:  "$",
		Schedule:  s,
		Paychecks: report.Paychecks(s, rec),
		Summary:   report.Summarize(cfg.IncomeSources, s, rec),
	}
}

// Money formats an amount in the report's currency.
func (r *Report) Money(amount decimal.Decimal) string {
	if r.Currency == "" {
		return FormatCurrency(amount)
	}
	return FormatCurrencyWith(r.Currency, amount)
}
