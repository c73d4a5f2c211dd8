package breakeven

import (
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/shopspring/decimal"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// OptimizationTarget defines what parameter to search
type OptimizationTarget string

const (
	OptimizeSavingsPercent OptimizationTarget = "savings_percent" // highest savings rate
	OptimizeIncomeFactor   OptimizationTarget = "income_factor"   // lowest income multiplier
	OptimizeAll            OptimizationTarget = "all"
)

// OptimizationGoal defines when a plan counts as feasible
type OptimizationGoal string

const (
	GoalFundAll       OptimizationGoal = "fund_all"         // no underfunded bills
	GoalFundAllOnTime OptimizationGoal = "fund_all_on_time" // no underfunded or critically late bills
)

// Constraints define bounds for the search
type Constraints struct {
	MinSavingsPercent *decimal.Decimal `json:"min_savings_percent,omitempty"`
	MaxSavingsPercent *decimal.Decimal `json:"max_savings_percent,omitempty"`

	// Income multiplier applied to every source, or only IncomeSource when set
	MinIncomeFactor *decimal.Decimal `json:"min_income_factor,omitempty"`
	MaxIncomeFactor *decimal.Decimal `json:"max_income_factor,omitempty"`
	IncomeSource    string           `json:"income_source,omitempty"`
}

// DefaultConstraints returns the full savings range and a 0.25x to 2x income range
func DefaultConstraints() Constraints {
	minPct := decimal.Zero
	maxPct := decimalHundred
	minFactor := decimal.RequireFromString("0.25")
	maxFactor := decimal.NewFromInt(2)

	return Constraints{
		MinSavingsPercent: &minPct,
		MaxSavingsPercent: &maxPct,
		MinIncomeFactor:   &minFactor,
		MaxIncomeFactor:   &maxFactor,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Config        *domain.Configuration `json:"-"`
	Target        OptimizationTarget    `json:"target"`
	Goal          OptimizationGoal      `json:"goal"`
	Constraints   Constraints           `json:"constraints"`
	MaxIterations int                   `json:"maxIterations"`
	Step          decimal.Decimal       `json:"step"` // search resolution
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Feasible        bool                `json:"feasible"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergenceInfo"`

	OptimalSavingsPercent *decimal.Decimal `json:"optimal_savings_percent,omitempty"`
	OptimalIncomeFactor   *decimal.Decimal `json:"optimal_income_factor,omitempty"`

	// Results at optimal parameters
	Summary        *report.Summary `json:"summary"`
	SavingsTarget  decimal.Decimal `json:"savings_target"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	Underfunded    int             `json:"underfunded"`
	CriticallyLate int             `json:"critically_late"`

	// Comparison to base
	BaseSummary         *report.Summary `json:"base_summary,omitempty"`
	SavingsDiffFromBase decimal.Decimal `json:"savings_diff_from_base"`
	IncomeDiffFromBase  decimal.Decimal `json:"income_diff_from_base"`
}

// MultiDimensionalResult contains results when searching several targets
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	BestBySavings   *OptimizationResult  `json:"best_by_savings,omitempty"`
	LowestIncome    *OptimizationResult  `json:"lowest_income,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Algorithm     string          // only "binary_search"
	Step          decimal.Decimal // search resolution in target units
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Algorithm:     "binary_search",
		Step:          decimal.RequireFromString("0.01"),
		MaxIterations: 50,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinSavingsPercent != nil && c.MinSavingsPercent.IsNegative() {
		return &AnalysisError{Operation: "validate_constraints", Message: "min_savings_percent cannot be negative"}
	}
	if c.MaxSavingsPercent != nil && c.MaxSavingsPercent.GreaterThan(decimalHundred) {
		return &AnalysisError{Operation: "validate_constraints", Message: "max_savings_percent cannot exceed 100"}
	}
	if c.MinSavingsPercent != nil && c.MaxSavingsPercent != nil &&
		c.MinSavingsPercent.GreaterThan(*c.MaxSavingsPercent) {
		return &AnalysisError{
			Operation: "validate_constraints",
			Message:   "min_savings_percent cannot be greater than max_savings_percent",
		}
	}

	if c.MinIncomeFactor != nil && c.MinIncomeFactor.IsNegative() {
		return &AnalysisError{Operation: "validate_constraints", Message: "min_income_factor cannot be negative"}
	}
	if c.MinIncomeFactor != nil && c.MaxIncomeFactor != nil &&
		c.MinIncomeFactor.GreaterThan(*c.MaxIncomeFactor) {
		return &AnalysisError{
			Operation: "validate_constraints",
			Message:   "min_income_factor cannot be greater than max_income_factor",
		}
	}

	return nil
}

// AnalysisError represents errors from the break-even solver
type AnalysisError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
