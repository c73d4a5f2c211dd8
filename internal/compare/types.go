package compare

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single plan variant with calculated metrics
type ComparisonResult struct {
	ScenarioName string          `json:"scenarioName"`
	Description  string          `json:"description"`
	Summary      *report.Summary `json:"summary,omitempty"`

	// Key Metrics
	SavingsPercent   decimal.Decimal `json:"savingsPercent"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	SavingsTarget    decimal.Decimal `json:"savingsTarget"`
	TotalBills       decimal.Decimal `json:"totalBills"`
	AverageRemaining decimal.Decimal `json:"averageRemaining"`
	MinRemaining     decimal.Decimal `json:"minRemaining"` // tightest visible paycheck
	Underfunded      int             `json:"underfunded"`
	Late             int             `json:"late"`
	CriticallyLate   int             `json:"criticallyLate"`

	// Comparison to Base
	SavingsDiffFromBase   decimal.Decimal `json:"savingsDiffFromBase"`
	RemainingDiffFromBase decimal.Decimal `json:"remainingDiffFromBase"`
	UnderfundedDiff       int             `json:"underfundedDiff"`
	LateDiff              int             `json:"lateDiff"`
}

// Feasible reports whether every visible bill is funded.
func (r ComparisonResult) Feasible() bool {
	return r.Underfunded == 0
}

// ComparisonSet represents a collection of plan comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from computed schedules
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one schedule
func (mc *MetricsCalculator) CalculateMetrics(name string, cfg *domain.Configuration, s *domain.Schedule) ComparisonResult {
	summary := report.Summarize(cfg.IncomeSources, s, report.Records{})
	result := ComparisonResult{
		ScenarioName:     name,
		Summary:          &summary,
		SavingsPercent:   s.SavingsPercent,
		MonthlyIncome:    summary.MonthlyIncome,
		SavingsTarget:    summary.SavingsTarget,
		TotalBills:       summary.TotalBillAmount,
		AverageRemaining: summary.AverageRemaining,
		MinRemaining:     mc.minRemaining(s),
		Underfunded:      summary.UnderfundedCount,
		Late:             summary.LateCount,
		CriticallyLate:   summary.CriticallyLateCount,
	}
	return result
}

// CalculateComparison computes deltas between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.SavingsDiffFromBase = scenario.SavingsTarget.Sub(base.SavingsTarget)
	scenario.RemainingDiffFromBase = scenario.MinRemaining.Sub(base.MinRemaining)
	scenario.UnderfundedDiff = scenario.Underfunded - base.Underfunded
	scenario.LateDiff = scenario.Late - base.Late
	return scenario
}

func (mc *MetricsCalculator) minRemaining(s *domain.Schedule) decimal.Decimal {
	visible := s.Visible()
	if len(visible) == 0 {
		return decimal.Zero
	}
	lowest := visible[0].Remaining()
	for i := 1; i < len(visible); i++ {
		if r := visible[i].Remaining(); r.LessThan(lowest) {
			lowest = r
		}
	}
	return lowest
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Highest savings that still funds every bill
	var bestSavings *ComparisonResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.Feasible() {
			continue
		}
		if bestSavings == nil || alt.SavingsTarget.GreaterThan(bestSavings.SavingsTarget) {
			bestSavings = alt
		}
	}
	if bestSavings != nil && bestSavings.SavingsTarget.GreaterThan(base.SavingsTarget) {
		recommendations = append(recommendations,
			"Most Savings: "+bestSavings.ScenarioName+" saves $"+
				bestSavings.SavingsDiffFromBase.StringFixed(2)+" more than the base plan with every bill funded")
	}

	// Fewest underfunded bills
	if base.Underfunded > 0 {
		safest := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.Underfunded < safest.Underfunded {
				safest = alt
			}
		}
		if safest != base {
			recommendations = append(recommendations,
				fmt.Sprintf("Fewest Shortfalls: %s funds %d more bill(s) than the base plan",
					safest.ScenarioName, base.Underfunded-safest.Underfunded))
		}
	}

	// Most slack in the tightest paycheck
	slack := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MinRemaining.GreaterThan(slack.MinRemaining) {
			slack = alt
		}
	}
	if slack != base {
		recommendations = append(recommendations,
			"Most Slack: "+slack.ScenarioName+" leaves $"+
				slack.MinRemaining.Sub(base.MinRemaining).StringFixed(2)+" more in the tightest paycheck")
	}

	return recommendations
}
