package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Search Target:       %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Feasibility Goal:    %s\n", result.Request.Goal))
	if result.Request.Constraints.IncomeSource != "" {
		sb.WriteString(fmt.Sprintf("Income Source:       %s\n", result.Request.Constraints.IncomeSource))
	}
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN POINT\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalSavingsPercent != nil {
		sb.WriteString(fmt.Sprintf("Savings Rate:        %s%%\n", result.OptimalSavingsPercent.StringFixed(2)))
	}
	if result.OptimalIncomeFactor != nil {
		pct := result.OptimalIncomeFactor.Mul(decimalHundred)
		sb.WriteString(fmt.Sprintf("Income Level:        %s%% of current\n", pct.StringFixed(1)))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Monthly Income:      $%s\n", tf.formatCurrency(result.MonthlyIncome)))
	sb.WriteString(fmt.Sprintf("Savings Target:      $%s\n", tf.formatCurrency(result.SavingsTarget)))
	sb.WriteString(fmt.Sprintf("Underfunded Bills:   %d\n", result.Underfunded))
	sb.WriteString(fmt.Sprintf("Critically Late:     %d\n", result.CriticallyLate))
	sb.WriteString("\n")

	if result.BaseSummary != nil {
		sb.WriteString("COMPARISON TO CURRENT PLAN\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Savings Change:      %s$%s\n",
			tf.deltaSymbol(result.SavingsDiffFromBase), tf.formatCurrency(result.SavingsDiffFromBase.Abs())))
		if !result.IncomeDiffFromBase.IsZero() {
			sb.WriteString(fmt.Sprintf("Monthly Income:      %s$%s\n",
				tf.deltaSymbol(result.IncomeDiffFromBase), tf.formatCurrency(result.IncomeDiffFromBase.Abs())))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-18s %-18s %12s %15s %12s\n",
		"Target", "Goal", "Value", "Savings", "Underfunded"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-18s %-18s %12s %15s %12d\n",
			tf.truncate(string(res.Request.Target), 18),
			tf.truncate(string(res.Request.Goal), 18),
			tf.formatValue(&res),
			"$"+tf.formatShort(res.SavingsTarget),
			res.Underfunded))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ No feasible value"
}

func (tf *TableFormatter) formatValue(r *OptimizationResult) string {
	switch {
	case r.OptimalSavingsPercent != nil:
		return r.OptimalSavingsPercent.StringFixed(2) + "%"
	case r.OptimalIncomeFactor != nil:
		return r.OptimalIncomeFactor.StringFixed(2) + "x"
	}
	return "-"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return "-"
	}
	return "+"
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
