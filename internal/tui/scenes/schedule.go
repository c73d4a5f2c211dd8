package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/tui/components"
	"github.com/rgehrsitz/billplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/billplan/internal/tui/tuistyles"
)

// ScheduleKeys are the bindings of the schedule browser.
type ScheduleKeys struct {
	PrevPaycheck key.Binding
	NextPaycheck key.Binding
	PrevBill     key.Binding
	NextBill     key.Binding
	MoveEarlier  key.Binding
	MoveLater    key.Binding
}

// DefaultScheduleKeys returns the standard bindings.
func DefaultScheduleKeys() ScheduleKeys {
	return ScheduleKeys{
		PrevPaycheck: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev paycheck")),
		NextPaycheck: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next paycheck")),
		PrevBill:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev bill")),
		NextBill:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next bill")),
		MoveEarlier:  key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move to earlier paycheck")),
		MoveLater:    key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move to later paycheck")),
	}
}

// Bindings lists the keys for the help line.
func (k ScheduleKeys) Bindings() []key.Binding {
	return []key.Binding{k.PrevPaycheck, k.NextPaycheck, k.PrevBill, k.NextBill, k.MoveEarlier, k.MoveLater}
}

// ScheduleModel browses paychecks and the bills placed on them.
type ScheduleModel struct {
	keys        ScheduleKeys
	paychecks   []report.PaycheckLine
	bufferBills int
	paycheck    int
	bill        int
	width       int
	height      int
}

// NewScheduleModel creates an empty schedule browser.
func NewScheduleModel() *ScheduleModel {
	return &ScheduleModel{keys: DefaultScheduleKeys()}
}

// Keys returns the scene bindings.
func (m *ScheduleModel) Keys() ScheduleKeys { return m.keys }

// SetSchedule replaces the displayed paychecks, keeping the cursor where
// it still fits.
func (m *ScheduleModel) SetSchedule(s *domain.Schedule, rec report.Records) {
	m.paychecks = report.Paychecks(s, rec)
	m.bufferBills = 0
	for _, a := range s.Allocations {
		if a.IsBuffer {
			m.bufferBills += len(a.Bills)
		}
	}
	m.clamp()
}

// SetSize updates the scene dimensions
func (m *ScheduleModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Follow moves the cursor to a bill instance on the paycheck paid on date.
// Unknown dates leave the cursor alone.
func (m *ScheduleModel) Follow(date domain.Date, instanceID string) {
	for i, p := range m.paychecks {
		if !p.PayDate.Equal(date) {
			continue
		}
		m.paycheck = i
		m.bill = 0
		for j, l := range p.Lines {
			if l.InstanceID == instanceID {
				m.bill = j
			}
		}
		return
	}
}

// Selected returns the highlighted paycheck and bill, if any.
func (m *ScheduleModel) Selected() (*report.PaycheckLine, *report.BillLine) {
	if m.paycheck >= len(m.paychecks) {
		return nil, nil
	}
	p := &m.paychecks[m.paycheck]
	if m.bill >= len(p.Lines) {
		return p, nil
	}
	return p, &p.Lines[m.bill]
}

func (m *ScheduleModel) clamp() {
	if m.paycheck >= len(m.paychecks) {
		m.paycheck = max(0, len(m.paychecks)-1)
	}
	if m.paycheck < len(m.paychecks) && m.bill >= len(m.paychecks[m.paycheck].Lines) {
		m.bill = max(0, len(m.paychecks[m.paycheck].Lines)-1)
	}
}

// Update handles messages for the schedule scene
func (m *ScheduleModel) Update(msg tea.Msg) (*ScheduleModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevPaycheck):
		if m.paycheck > 0 {
			m.paycheck--
			m.bill = 0
		}
	case key.Matches(keyMsg, m.keys.NextPaycheck):
		if m.paycheck < len(m.paychecks)-1 {
			m.paycheck++
			m.bill = 0
		}
	case key.Matches(keyMsg, m.keys.PrevBill):
		if m.bill > 0 {
			m.bill--
		}
	case key.Matches(keyMsg, m.keys.NextBill):
		if p, _ := m.Selected(); p != nil && m.bill < len(p.Lines)-1 {
			m.bill++
		}
	case key.Matches(keyMsg, m.keys.MoveEarlier):
		return m, m.move(schedule.Up)
	case key.Matches(keyMsg, m.keys.MoveLater):
		return m, m.move(schedule.Down)
	}
	return m, nil
}

func (m *ScheduleModel) move(dir schedule.Direction) tea.Cmd {
	p, b := m.Selected()
	if b == nil {
		return nil
	}
	msg := tuimsg.MoveBillMsg{InstanceID: b.InstanceID, FromPayDate: p.PayDate, Direction: dir}
	return func() tea.Msg { return msg }
}

// View renders the paycheck list beside the selected paycheck's bills.
func (m *ScheduleModel) View() string {
	if len(m.paychecks) == 0 {
		return tuistyles.BorderStyle.Render("No paychecks in this plan.\nEvery income source needs a last pay date.")
	}

	left := m.renderPaychecks()
	right := m.renderBills()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	if m.bufferBills > 0 {
		note := tuistyles.LateStyle.Render(fmt.Sprintf("%d bill(s) sit on paychecks past the horizon", m.bufferBills))
		body = lipgloss.JoinVertical(lipgloss.Left, body, note)
	}
	return body
}

func (m *ScheduleModel) renderPaychecks() string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render("Paychecks"))
	b.WriteString("\n")
	for i, p := range m.paychecks {
		line := fmt.Sprintf("%s  %10s  %10s", p.PayDate, tuistyles.FormatCurrency(p.PaycheckAmount), tuistyles.FormatCurrency(p.Allocation.Remaining()))
		style := tuistyles.UnselectedItemStyle
		if p.Allocation.Remaining().IsNegative() {
			style = tuistyles.UnderfundedStyle
		}
		if i == m.paycheck {
			line = "▸ " + line
			style = tuistyles.SelectedItemStyle
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *ScheduleModel) renderBills() string {
	p, _ := m.Selected()
	var b strings.Builder

	b.WriteString(tuistyles.TitleStyle.Render(fmt.Sprintf("%s  %s", p.PayDate, p.SourceName)))
	b.WriteString("\n")
	b.WriteString(components.NewUsageBar(p.UsedFunds, p.PaycheckAmount).WithLabel("used").Render())
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("savings %s", tuistyles.FormatCurrency(p.SavingsAmount))))
	b.WriteString("\n\n")

	if len(p.Lines) == 0 {
		b.WriteString(tuistyles.SubtitleStyle.Render("no bills on this paycheck"))
	}
	for i, l := range p.Lines {
		line := fmt.Sprintf("%-20s %10s  due %s%s", truncate(l.Bill.Name, 20), tuistyles.FormatCurrency(l.Amount), l.DueDate, billFlags(l))
		style := tuistyles.UnselectedItemStyle
		switch {
		case l.IsUnderfunded:
			style = tuistyles.UnderfundedStyle
		case l.IsLate:
			style = tuistyles.LateStyle
		}
		if i == m.bill {
			line = "▸ " + line
			style = style.Inherit(tuistyles.SelectedItemStyle)
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	for _, otb := range p.OneTimeBills {
		b.WriteString(tuistyles.InfoStyle.Render(fmt.Sprintf("  %-20s %10s  one-time", truncate(otb.Name, 20), tuistyles.FormatCurrency(otb.Amount))))
		b.WriteString("\n")
	}
	return tuistyles.ActiveBorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func billFlags(l report.BillLine) string {
	var flags []string
	if l.IsPaid {
		flags = append(flags, "paid")
	}
	if l.IsLate {
		flags = append(flags, fmt.Sprintf("%dd late", l.DaysLate))
	}
	if l.IsCriticallyLate {
		flags = append(flags, "critical")
	}
	if l.IsUnderfunded {
		flags = append(flags, "underfunded")
	}
	if l.Tier == domain.TierOverride || l.Tier == domain.TierMoved {
		flags = append(flags, "pinned")
	}
	if len(flags) == 0 {
		return ""
	}
	return "  [" + strings.Join(flags, ", ") + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
