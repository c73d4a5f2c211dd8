package output

import (
	"encoding/json"
	"time"

	"github.com/rgehrsitz/billplan/internal/report"
)

// JSONFormatter emits the schedule with savings and payment status.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonReport struct {
	Generated      time.Time             `json:"generated"`
	SavingsPercent string                `json:"savingsPercent"`
	MonthsToShow   int                   `json:"monthsToShow"`
	PayPeriodDays  int                   `json:"payPeriodDays"`
	Summary        report.Summary        `json:"summary"`
	Paychecks      []report.PaycheckLine `json:"paychecks"`
	Warnings       []string              `json:"warnings,omitempty"`
}

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	out := jsonReport{
		Generated:      r.Generated.UTC(),
		SavingsPercent: r.Schedule.SavingsPercent.String(),
		MonthsToShow:   r.Schedule.MonthsToShow,
		PayPeriodDays:  r.Schedule.PayPeriodDays,
		Summary:        r.Summary,
		Paychecks:      r.Paychecks,
		Warnings:       r.Schedule.Warnings,
	}
	if out.Paychecks == nil {
		out.Paychecks = []report.PaycheckLine{}
	}
	return json.MarshalIndent(out, "", "  ")
}
