package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	consoleTitle   = lipgloss.NewStyle().Bold(true)
	consoleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	consoleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	consoleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ConsoleFormatter renders the schedule as a plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, consoleTitle.Render(strings.ToUpper(r.Title)))
	fmt.Fprintln(&buf, rule)

	s := r.Summary
	fmt.Fprintf(&buf, "Monthly income:   %s (%s/year)\n", r.Money(s.MonthlyIncome), r.Money(s.YearlyIncome))
	fmt.Fprintf(&buf, "Savings:          %s of income, %s/month, %s over %d months\n",
		FormatPercentage(s.Savings.Percent), r.Money(s.Savings.Monthly), r.Money(s.Savings.Total), r.Schedule.MonthsToShow)
	fmt.Fprintf(&buf, "Savings progress: %s of %s deposited (%s)\n",
		r.Money(s.SavingsDeposited), r.Money(s.SavingsTarget), FormatPercentage(s.SavingsProgress))
	fmt.Fprintf(&buf, "Bills:            %d totalling %s, %d late, %d critically late, %d underfunded\n",
		s.BillCount, r.Money(s.TotalBillAmount), s.LateCount, s.CriticallyLateCount, s.UnderfundedCount)
	fmt.Fprintln(&buf)

	if len(r.Paychecks) == 0 {
		fmt.Fprintln(&buf, "No paychecks in range. Add income sources with a last pay date.")
	}

	for i, p := range r.Paychecks {
		fmt.Fprintln(&buf, consoleHeading.Render(fmt.Sprintf("PAY PERIOD %d: %s  %s", i+1, p.PayDate.Format("Mon Jan 2, 2006"), p.SourceName)))
		fmt.Fprintln(&buf, strings.Repeat("-", 72))
		fmt.Fprintf(&buf, "  Paycheck %s  Used %s  Remaining %s  Savings %s%s\n",
			r.Money(p.PaycheckAmount), r.Money(p.UsedFunds), r.Money(p.Remaining()), r.Money(p.SavingsAmount), depositedMark(p.SavingsDeposited))

		if len(p.Lines) == 0 && len(p.OneTimeBills) == 0 {
			fmt.Fprintln(&buf, consoleMuted.Render("  (no bills)"))
		}
		for _, b := range p.Lines {
			fmt.Fprintf(&buf, "  %-3s %-28s %12s  due %s%s\n",
				paidMark(b.IsPaid), truncate(b.Bill.Name, 28), r.Money(b.Amount), b.DueDate, flags(b.IsLate, b.DaysLate, b.IsCriticallyLate, b.IsUnderfunded))
		}
		for _, o := range p.OneTimeBills {
			fmt.Fprintf(&buf, "  %-3s %-28s %12s  one-time\n", paidMark(o.IsPaid), truncate(o.Name, 28), r.Money(o.Amount))
		}
		fmt.Fprintln(&buf)
	}

	for _, w := range r.Schedule.Warnings {
		fmt.Fprintln(&buf, consoleWarn.Render("warning: "+w))
	}
	return buf.Bytes(), nil
}

func paidMark(paid bool) string {
	if paid {
		return "[x]"
	}
	return "[ ]"
}

func depositedMark(deposited bool) string {
	if deposited {
		return " (deposited)"
	}
	return ""
}

func flags(late bool, daysLate int, critical, underfunded bool) string {
	var parts []string
	if critical {
		parts = append(parts, fmt.Sprintf("CRITICALLY LATE %dd", daysLate))
	} else if late {
		parts = append(parts, fmt.Sprintf("late %dd", daysLate))
	}
	if underfunded {
		parts = append(parts, "UNDERFUNDED")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + consoleWarn.Render(strings.Join(parts, ", "))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
