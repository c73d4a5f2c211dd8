package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
)

// OptimizeMultiDimensional runs every target for each goal and compares results
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	config *domain.Configuration,
	constraints Constraints,
	goals []OptimizationGoal,
) (*MultiDimensionalResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{
		OptimizeSavingsPercent,
		OptimizeIncomeFactor,
	}

	var results []OptimizationResult
	var lastErr error

	for _, target := range targets {
		for _, goal := range goals {
			req := OptimizationRequest{
				Config:        config,
				Target:        target,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: s.Options.MaxIterations,
				Step:          s.Options.Step,
			}

			result, err := s.Optimize(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				lastErr = err
				continue
			}

			if result != nil && result.Success {
				results = append(results, *result)
			}
		}
	}

	if len(results) == 0 {
		return nil, &AnalysisError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
			Cause:     lastErr,
		}
	}

	mdResult := &MultiDimensionalResult{
		Results: results,
	}
	pickBest(mdResult)
	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

// pickBest fills BestBySavings and LowestIncome from Results. Income
// results without a factor are skipped.
func pickBest(md *MultiDimensionalResult) {
	for i := range md.Results {
		r := &md.Results[i]
		switch r.Request.Target {
		case OptimizeSavingsPercent:
			if md.BestBySavings == nil || r.SavingsTarget.GreaterThan(md.BestBySavings.SavingsTarget) {
				md.BestBySavings = r
			}
		case OptimizeIncomeFactor:
			if r.OptimalIncomeFactor == nil {
				continue
			}
			if md.LowestIncome == nil || r.OptimalIncomeFactor.LessThan(*md.LowestIncome.OptimalIncomeFactor) {
				md.LowestIncome = r
			}
		}
	}
}

func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	if best := result.BestBySavings; best != nil && best.OptimalSavingsPercent != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("You can save up to %s%% of each paycheck (%s goal), about $%s over the horizon",
				best.OptimalSavingsPercent.StringFixed(2), best.Request.Goal, best.SavingsTarget.StringFixed(2)))
	}

	if low := result.LowestIncome; low != nil && low.OptimalIncomeFactor != nil {
		drop := low.OptimalIncomeFactor.Sub(decimalOne).Neg().Mul(decimalHundred)
		if drop.IsPositive() {
			recommendations = append(recommendations,
				fmt.Sprintf("Income could fall %s%% before any bill goes unfunded", drop.StringFixed(1)))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Income must rise %s%% to fund every bill", drop.Neg().StringFixed(1)))
		}
	}

	return recommendations
}

// OptimizeAllTargets is a convenience method to optimize all targets with a single goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	config *domain.Configuration,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, config, constraints, []OptimizationGoal{goal})
}
