package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A $1000 biweekly paycheck against a $600 bill due on the first pay date:
// feasible up to 40% savings, or down to 0.60x income.
func testPlan(rent int64) *domain.Configuration {
	last := domain.MustParseDate("2024-01-05")
	return &domain.Configuration{
		SavingsPercent: decimal.NewFromInt(10),
		MonthsToShow:   1,
		IncomeSources: []domain.IncomeSource{
			{ID: "job", Name: "Job", Amount: decimal.NewFromInt(1000), Frequency: domain.FrequencyBiweekly, LastPayDate: &last},
		},
		Bills: []domain.Bill{
			{Name: "Rent", PaymentAmount: decimal.NewFromInt(rent), DueDate: domain.MustParseDate("2024-01-05"), Type: domain.BillOneTime},
		},
	}
}

func newSolver() *Solver {
	return NewDefaultSolver(calculation.NewCalculationEngine())
}

func TestNewSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(calcEngine, options)
	require.NotNil(t, solver)
	assert.Same(t, calcEngine, solver.CalcEngine)
	assert.Equal(t, "binary_search", solver.Options.Algorithm)
	assert.Equal(t, 50, solver.Options.MaxIterations)
}

func TestOptimize_SavingsPercent(t *testing.T) {
	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config: testPlan(600),
		Target: OptimizeSavingsPercent,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.Feasible)
	require.NotNil(t, result.OptimalSavingsPercent)
	assert.Equal(t, "40.00", result.OptimalSavingsPercent.StringFixed(2))
	assert.Equal(t, "Binary search converged", result.ConvergenceInfo)
	assert.LessOrEqual(t, result.Iterations, 20)
	assert.Equal(t, GoalFundAll, result.Request.Goal, "goal defaults to fund_all")

	assert.True(t, result.SavingsTarget.Equal(decimal.NewFromInt(800)), "2 paychecks x $400, got %s", result.SavingsTarget)
	require.NotNil(t, result.BaseSummary)
	assert.True(t, result.SavingsDiffFromBase.Equal(decimal.NewFromInt(600)), "base saves $200, got %s", result.SavingsDiffFromBase)
}

func TestOptimize_IncomeFactor(t *testing.T) {
	plan := testPlan(600)
	plan.SavingsPercent = decimal.Zero

	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config: plan,
		Target: OptimizeIncomeFactor,
		Goal:   GoalFundAllOnTime,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.OptimalIncomeFactor)
	assert.Equal(t, "0.60", result.OptimalIncomeFactor.StringFixed(2))
	assert.Equal(t, 0, result.Underfunded)
	assert.True(t, result.IncomeDiffFromBase.IsNegative())
	assert.True(t, plan.IncomeSources[0].Amount.Equal(decimal.NewFromInt(1000)), "plan is not modified")
}

func TestOptimize_NoFeasibleValue(t *testing.T) {
	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config: testPlan(1200),
		Target: OptimizeSavingsPercent,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, result.Feasible)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "No feasible value in the search range", result.ConvergenceInfo)
}

func TestOptimize_WholeRangeFeasible(t *testing.T) {
	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config: testPlan(0),
		Target: OptimizeSavingsPercent,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "100.00", result.OptimalSavingsPercent.StringFixed(2))
	assert.Equal(t, 2, result.Iterations)
}

func TestOptimize_MaxIterations(t *testing.T) {
	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config:        testPlan(600),
		Target:        OptimizeSavingsPercent,
		MaxIterations: 3,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Max iterations (3) reached", result.ConvergenceInfo)
	assert.True(t, result.Feasible, "best feasible point so far is returned")
	assert.True(t, result.OptimalSavingsPercent.LessThanOrEqual(decimal.NewFromInt(40)))
}

func TestOptimize_CustomStepAndBounds(t *testing.T) {
	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(50)
	result, err := newSolver().Optimize(context.Background(), OptimizationRequest{
		Config:      testPlan(600),
		Target:      OptimizeSavingsPercent,
		Step:        decimal.NewFromInt(5),
		Constraints: Constraints{MinSavingsPercent: &lo, MaxSavingsPercent: &hi},
	})
	require.NoError(t, err)
	assert.Equal(t, "40", result.OptimalSavingsPercent.String())
}

func TestOptimize_Errors(t *testing.T) {
	solver := newSolver()
	ctx := context.Background()

	_, err := solver.Optimize(ctx, OptimizationRequest{Target: OptimizeSavingsPercent})
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "optimize", ae.Operation)

	_, err = solver.Optimize(ctx, OptimizationRequest{Config: testPlan(600), Target: "retirement_date"})
	assert.ErrorContains(t, err, "unsupported optimization target")

	_, err = solver.Optimize(ctx, OptimizationRequest{
		Config:      testPlan(600),
		Target:      OptimizeIncomeFactor,
		Constraints: Constraints{IncomeSource: "Ghost"},
	})
	assert.ErrorContains(t, err, "failed to apply income transform")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = solver.Optimize(canceled, OptimizationRequest{Config: testPlan(600), Target: OptimizeSavingsPercent})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConstraints_Validate(t *testing.T) {
	d := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	tests := []struct {
		name    string
		c       Constraints
		wantErr string
	}{
		{"defaults", DefaultConstraints(), ""},
		{"empty", Constraints{}, ""},
		{"negative savings", Constraints{MinSavingsPercent: d("-1")}, "cannot be negative"},
		{"savings over 100", Constraints{MaxSavingsPercent: d("101")}, "cannot exceed 100"},
		{"savings inverted", Constraints{MinSavingsPercent: d("50"), MaxSavingsPercent: d("10")}, "min_savings_percent cannot be greater"},
		{"negative factor", Constraints{MinIncomeFactor: d("-0.5")}, "min_income_factor cannot be negative"},
		{"factor inverted", Constraints{MinIncomeFactor: d("2"), MaxIncomeFactor: d("1")}, "min_income_factor cannot be greater"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAnalysisError(t *testing.T) {
	cause := errors.New("boom")
	err := &AnalysisError{Operation: "optimize", Message: "failed", Cause: cause}
	assert.Equal(t, "optimize: failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "optimize: failed", (&AnalysisError{Operation: "optimize", Message: "failed"}).Error())
}

func TestOptimizeMultiDimensional(t *testing.T) {
	plan := testPlan(600)
	plan.SavingsPercent = decimal.Zero

	result, err := newSolver().OptimizeAllTargets(context.Background(), plan, DefaultConstraints(), GoalFundAll)
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	require.NotNil(t, result.BestBySavings)
	require.NotNil(t, result.LowestIncome)
	assert.Equal(t, "40.00", result.BestBySavings.OptimalSavingsPercent.StringFixed(2))
	assert.Equal(t, "0.60", result.LowestIncome.OptimalIncomeFactor.StringFixed(2))

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "You can save up to 40.00% of each paycheck (fund_all goal), about $800.00 over the horizon", result.Recommendations[0])
	assert.Equal(t, "Income could fall 40.0% before any bill goes unfunded", result.Recommendations[1])
}

func TestOptimizeMultiDimensional_NothingFeasible(t *testing.T) {
	lo, hi := decimal.NewFromInt(1), decimal.NewFromInt(1)
	c := Constraints{MinIncomeFactor: &lo, MaxIncomeFactor: &hi}

	_, err := newSolver().OptimizeMultiDimensional(context.Background(), testPlan(5000), c, []OptimizationGoal{GoalFundAll})
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "optimize_multi_dimensional", ae.Operation)
}

func TestPickBest_SkipsIncomeResultWithoutFactor(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	md := &MultiDimensionalResult{Results: []OptimizationResult{
		{Request: OptimizationRequest{Target: OptimizeIncomeFactor}},
		{Request: OptimizationRequest{Target: OptimizeIncomeFactor}, OptimalIncomeFactor: &half},
		{Request: OptimizationRequest{Target: OptimizeIncomeFactor}},
	}}

	assert.NotPanics(t, func() { pickBest(md) })
	require.NotNil(t, md.LowestIncome)
	assert.Equal(t, "0.5", md.LowestIncome.OptimalIncomeFactor.String())

	empty := &MultiDimensionalResult{Results: []OptimizationResult{{Request: OptimizationRequest{Target: OptimizeIncomeFactor}}}}
	pickBest(empty)
	assert.Nil(t, empty.LowestIncome)
}
