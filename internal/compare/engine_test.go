package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *domain.Configuration {
	last := domain.MustParseDate("2024-01-05")
	return &domain.Configuration{
		MonthsToShow: 2,
		IncomeSources: []domain.IncomeSource{
			{ID: "job", Name: "Job", Amount: decimal.NewFromInt(1000), Frequency: domain.FrequencyBiweekly, LastPayDate: &last},
		},
		Bills: []domain.Bill{
			{Name: "Rent", PaymentAmount: decimal.NewFromInt(600), DueDate: domain.MustParseDate("2024-01-05"), Type: domain.BillRecurring},
			{Name: "Phone", PaymentAmount: decimal.NewFromInt(80), DueDate: domain.MustParseDate("2024-01-19"), Type: domain.BillRecurring},
		},
	}
}

func TestCompareEngine_Compare(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	set, err := engine.Compare(context.Background(), testPlan(), CompareOptions{
		Templates:    []string{"save_20pct"},
		Transforms:   []string{"set_savings:percent=50"},
		SavingsRates: []decimal.Decimal{decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	assert.Equal(t, "base", set.BaseScenarioName)
	require.NotNil(t, set.BaseResult)
	assert.True(t, set.BaseResult.SavingsTarget.IsZero())
	assert.Equal(t, 0, set.BaseResult.Underfunded)
	assert.Equal(t, "Baseline plan", set.BaseResult.Description)

	require.Len(t, set.AlternativeResults, 3)
	save20, half, save10 := set.AlternativeResults[0], set.AlternativeResults[1], set.AlternativeResults[2]

	assert.Equal(t, "save_20pct", save20.ScenarioName)
	assert.True(t, save20.SavingsDiffFromBase.Equal(decimal.NewFromInt(800)), "4 paychecks x $200, got %s", save20.SavingsDiffFromBase)
	assert.True(t, save20.Feasible())

	assert.Equal(t, "set_savings:percent=50", half.ScenarioName)
	assert.False(t, half.Feasible(), "a $500 paycheck cannot cover $600 rent")
	assert.Positive(t, half.UnderfundedDiff)

	assert.Equal(t, "save_10pct", save10.ScenarioName)
	assert.True(t, save10.SavingsTarget.Equal(decimal.NewFromInt(400)))

	require.NotEmpty(t, set.Recommendations)
	assert.Contains(t, set.Recommendations[0], "Most Savings: save_20pct")
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())
	ctx := context.Background()

	_, err := engine.Compare(ctx, nil, CompareOptions{})
	assert.Error(t, err)

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{Templates: []string{"retire_early"}})
	assert.ErrorContains(t, err, "template retire_early not found")

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{Transforms: []string{"remove_bill:bill=Gym"}})
	assert.ErrorContains(t, err, "bill Gym not found")

	_, err = engine.Compare(ctx, testPlan(), CompareOptions{Transforms: []string{"nonsense"}})
	assert.ErrorContains(t, err, "invalid transform")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.Compare(canceled, testPlan(), CompareOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareEngine_BaseUnchanged(t *testing.T) {
	plan := testPlan()
	_, err := NewCompareEngine(calculation.NewCalculationEngine()).Compare(context.Background(), plan, CompareOptions{
		Templates: []string{"lean"},
	})
	require.NoError(t, err)
	assert.True(t, plan.IncomeSources[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestGenerateRecommendations(t *testing.T) {
	base := &ComparisonResult{ScenarioName: "base", SavingsTarget: decimal.NewFromInt(100), MinRemaining: decimal.NewFromInt(50), Underfunded: 2}
	set := &ComparisonSet{
		BaseResult: base,
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "greedy", SavingsTarget: decimal.NewFromInt(900), Underfunded: 3, MinRemaining: decimal.NewFromInt(-20)},
			{ScenarioName: "steady", SavingsTarget: decimal.NewFromInt(300), SavingsDiffFromBase: decimal.NewFromInt(200), MinRemaining: decimal.NewFromInt(75)},
		},
	}

	recs := GenerateRecommendations(set)
	require.Len(t, recs, 3)
	assert.Equal(t, "Most Savings: steady saves $200.00 more than the base plan with every bill funded", recs[0])
	assert.Equal(t, "Fewest Shortfalls: steady funds 2 more bill(s) than the base plan", recs[1])
	assert.Equal(t, "Most Slack: steady leaves $25.00 more in the tightest paycheck", recs[2])

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: base}))
}
