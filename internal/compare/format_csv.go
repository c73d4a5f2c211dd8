package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Savings %",
		"Monthly Income",
		"Savings Target",
		"Total Bills",
		"Average Remaining",
		"Min Remaining",
		"Underfunded",
		"Late",
		"Critically Late",
		"Savings Diff from Base",
		"Min Remaining Diff",
		"Underfunded Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.SavingsPercent.String(),
		result.MonthlyIncome.StringFixed(2),
		result.SavingsTarget.StringFixed(2),
		result.TotalBills.StringFixed(2),
		result.AverageRemaining.StringFixed(2),
		result.MinRemaining.StringFixed(2),
		strconv.Itoa(result.Underfunded),
		strconv.Itoa(result.Late),
		strconv.Itoa(result.CriticallyLate),
		result.SavingsDiffFromBase.StringFixed(2),
		result.RemainingDiffFromBase.StringFixed(2),
		strconv.Itoa(result.UnderfundedDiff),
	}
}
