package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plan variants
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PAYCHECK PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Plan File: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 24
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Savings",
		numWidth, "Min Left",
		numWidth, "Underfunded",
		numWidth, "Late"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s: %s\n", alt.ScenarioName, alt.Description))

			sb.WriteString(fmt.Sprintf("  Savings:          %s$%s\n",
				tf.deltaSymbol(alt.SavingsDiffFromBase),
				alt.SavingsDiffFromBase.StringFixed(2)))
			sb.WriteString(fmt.Sprintf("  Tightest Check:   %s$%s\n",
				tf.deltaSymbol(alt.RemainingDiffFromBase),
				alt.RemainingDiffFromBase.StringFixed(2)))

			if alt.UnderfundedDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Underfunded:      %+d bills\n", alt.UnderfundedDiff))
			}
			if alt.LateDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Late:             %+d bills\n", alt.LateDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*d %*d\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.SavingsTarget),
		numWidth, "$"+tf.formatDecimal(result.MinRemaining),
		numWidth, result.Underfunded,
		numWidth, result.Late)
}

// formatDecimal abbreviates thousands
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns "+" for gains; negative values carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each variant
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.SavingsDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s", tf.formatDecimal(alt.SavingsDiffFromBase))
		} else if alt.SavingsDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s", tf.formatDecimal(alt.SavingsDiffFromBase.Abs()))
		}
		status := "ok"
		if !alt.Feasible() {
			status = fmt.Sprintf("%d short", alt.Underfunded)
		}
		sb.WriteString(fmt.Sprintf("%s: %s (%s)", alt.ScenarioName, change, status))
	}

	return sb.String()
}
