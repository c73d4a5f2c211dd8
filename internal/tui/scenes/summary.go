package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/tui/components"
	"github.com/rgehrsitz/billplan/internal/tui/tuistyles"
)

// SummaryModel shows headline figures for the schedule.
type SummaryModel struct {
	summary   *report.Summary
	paychecks []report.PaycheckLine
	width     int
	height    int
}

// NewSummaryModel creates a new summary scene model
func NewSummaryModel() *SummaryModel {
	return &SummaryModel{}
}

// SetSummary updates the figures to display.
func (m *SummaryModel) SetSummary(sum report.Summary, paychecks []report.PaycheckLine) {
	m.summary = &sum
	m.paychecks = paychecks
}

// SetSize updates the scene dimensions
func (m *SummaryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update is a no-op; the summary is read-only.
func (m *SummaryModel) Update(msg tea.Msg) (*SummaryModel, tea.Cmd) {
	return m, nil
}

// View renders metric cards, savings progress and per-paycheck usage.
func (m *SummaryModel) View() string {
	if m.summary == nil {
		return tuistyles.BorderStyle.Render("No schedule computed yet.")
	}
	s := m.summary

	cards := []*components.MetricCard{
		components.NewMoneyCard("Monthly income", s.MonthlyIncome),
		components.NewMoneyCard("Savings target", s.SavingsTarget).
			WithDescription(fmt.Sprintf("%s%% of each paycheck", s.Savings.Percent.String())),
		components.NewMoneyCard("Bills", s.TotalBillAmount).
			WithDescription(fmt.Sprintf("%d placed", s.BillCount)),
		components.NewMoneyCard("Avg remaining", s.AverageRemaining),
		components.NewCountCard("Underfunded", s.UnderfundedCount),
		components.NewCountCard("Late", s.LateCount).
			WithDescription(fmt.Sprintf("%d critical", s.CriticallyLateCount)),
	}
	columns := 3
	if m.width > 0 && m.width < 80 {
		columns = 2
	}

	savings := components.NewUsageBar(s.SavingsDeposited, s.SavingsTarget).
		WithLabel("Savings deposited").
		AsGoal().
		Render()

	var usage strings.Builder
	usage.WriteString(tuistyles.TableHeaderStyle.Render("Paycheck usage"))
	for _, p := range m.paychecks {
		usage.WriteString("\n")
		usage.WriteString(components.NewUsageBar(p.UsedFunds, p.PaycheckAmount).
			WithLabel(p.PayDate.String()).
			WithWidth(24).
			Render())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, columns),
		"",
		savings,
		"",
		usage.String(),
	)
}
