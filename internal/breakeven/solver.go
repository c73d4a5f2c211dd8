package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches a plan parameter for the edge of the feasible region
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// evalFunc computes the plan at grid point k.
type evalFunc func(k int64) (*OptimizationResult, error)

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Config == nil {
		return nil, &AnalysisError{Operation: "optimize", Message: "plan is required"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Step.IsPositive() {
		req.Step = s.Options.Step
	}
	if req.Goal == "" {
		req.Goal = GoalFundAll
	}

	base, err := s.evaluate(req, req.Config)
	if err != nil {
		return nil, &AnalysisError{Operation: "optimize", Message: "failed to calculate base plan", Cause: err}
	}

	var result *OptimizationResult
	switch req.Target {
	case OptimizeSavingsPercent:
		result, err = s.optimizeSavingsPercent(ctx, req)
	case OptimizeIncomeFactor:
		result, err = s.optimizeIncomeFactor(ctx, req)
	default:
		return nil, &AnalysisError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if err != nil {
		return nil, err
	}

	result.BaseSummary = base.Summary
	result.SavingsDiffFromBase = result.SavingsTarget.Sub(base.SavingsTarget)
	result.IncomeDiffFromBase = result.MonthlyIncome.Sub(base.MonthlyIncome)
	return result, nil
}

// optimizeSavingsPercent finds the highest savings rate that keeps the plan feasible
func (s *Solver) optimizeSavingsPercent(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	lo, hi := decimal.Zero, decimal.NewFromInt(100)
	if req.Constraints.MinSavingsPercent != nil {
		lo = *req.Constraints.MinSavingsPercent
	}
	if req.Constraints.MaxSavingsPercent != nil {
		hi = *req.Constraints.MaxSavingsPercent
	}

	eval := func(k int64) (*OptimizationResult, error) {
		pct := req.Step.Mul(decimal.NewFromInt(k))
		modified, err := transform.ApplyTransforms(req.Config, []transform.PlanTransform{
			&transform.SetSavingsPercent{Percent: pct},
		})
		if err != nil {
			return nil, &AnalysisError{Operation: "optimize_savings_percent", Message: "failed to apply savings transform", Cause: err}
		}
		result, err := s.evaluate(req, modified)
		if err != nil {
			return nil, &AnalysisError{Operation: "optimize_savings_percent", Message: "failed to calculate plan", Cause: err}
		}
		result.OptimalSavingsPercent = &pct
		return result, nil
	}

	return s.boundary(ctx, req, gridCeil(lo, req.Step), gridFloor(hi, req.Step), true, eval)
}

// optimizeIncomeFactor finds the smallest income multiplier that keeps the plan feasible
func (s *Solver) optimizeIncomeFactor(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	defaults := DefaultConstraints()
	lo, hi := *defaults.MinIncomeFactor, *defaults.MaxIncomeFactor
	if req.Constraints.MinIncomeFactor != nil {
		lo = *req.Constraints.MinIncomeFactor
	}
	if req.Constraints.MaxIncomeFactor != nil {
		hi = *req.Constraints.MaxIncomeFactor
	}

	eval := func(k int64) (*OptimizationResult, error) {
		factor := req.Step.Mul(decimal.NewFromInt(k))
		modified, err := transform.ApplyTransforms(req.Config, []transform.PlanTransform{
			&transform.ScaleIncome{Source: req.Constraints.IncomeSource, Factor: factor},
		})
		if err != nil {
			return nil, &AnalysisError{Operation: "optimize_income_factor", Message: "failed to apply income transform", Cause: err}
		}
		result, err := s.evaluate(req, modified)
		if err != nil {
			return nil, &AnalysisError{Operation: "optimize_income_factor", Message: "failed to calculate plan", Cause: err}
		}
		result.OptimalIncomeFactor = &factor
		return result, nil
	}

	return s.boundary(ctx, req, gridCeil(lo, req.Step), gridFloor(hi, req.Step), false, eval)
}

// boundary binary-searches the grid [lo, hi] for the edge of the feasible
// region. With wantMax the feasible points are assumed to be a prefix of
// the range and the largest one is returned; otherwise they are a suffix
// and the smallest one is returned.
func (s *Solver) boundary(ctx context.Context, req OptimizationRequest, lo, hi int64, wantMax bool, eval evalFunc) (*OptimizationResult, error) {
	if lo > hi {
		return nil, &AnalysisError{Operation: "optimize", Message: "search range is empty"}
	}

	iterations := 0
	probe := func(k int64) (*OptimizationResult, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++
		return eval(k)
	}

	good, bad := lo, hi
	if !wantMax {
		good, bad = hi, lo
	}

	best, err := probe(good)
	if err != nil {
		return nil, err
	}
	if !best.Feasible {
		best.Iterations = iterations
		best.ConvergenceInfo = "No feasible value in the search range"
		return best, nil
	}

	far, err := probe(bad)
	if err != nil {
		return nil, err
	}
	if far.Feasible {
		far.Success = true
		far.Iterations = iterations
		far.ConvergenceInfo = "Feasible across the whole search range"
		return far, nil
	}

	for abs(bad-good) > 1 {
		if iterations >= req.MaxIterations {
			best.Success = true
			best.Iterations = iterations
			best.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			return best, nil
		}

		mid := good + (bad-good)/2
		result, err := probe(mid)
		if err != nil {
			return nil, err
		}
		if result.Feasible {
			good, best = mid, result
		} else {
			bad = mid
		}
	}

	best.Success = true
	best.Iterations = iterations
	best.ConvergenceInfo = "Binary search converged"
	return best, nil
}

// evaluate computes a schedule for cfg and checks it against the goal
func (s *Solver) evaluate(req OptimizationRequest, cfg *domain.Configuration) (*OptimizationResult, error) {
	schedule, err := s.CalcEngine.ComputeSchedule(calculation.InputsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	summary := report.Summarize(cfg.IncomeSources, schedule, report.Records{})

	result := &OptimizationResult{
		Request:        req,
		Summary:        &summary,
		SavingsTarget:  summary.SavingsTarget,
		MonthlyIncome:  summary.MonthlyIncome,
		Underfunded:    summary.UnderfundedCount,
		CriticallyLate: summary.CriticallyLateCount,
	}
	result.Feasible = isFeasible(result, req.Goal)
	return result, nil
}

func isFeasible(r *OptimizationResult, goal OptimizationGoal) bool {
	switch goal {
	case GoalFundAllOnTime:
		return r.Underfunded == 0 && r.CriticallyLate == 0
	default:
		return r.Underfunded == 0
	}
}

func gridFloor(v, step decimal.Decimal) int64 {
	return v.Div(step).Floor().IntPart()
}

func gridCeil(v, step decimal.Decimal) int64 {
	return v.Div(step).Ceil().IntPart()
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
