package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/transform"
	"github.com/shopspring/decimal"
)

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string            // Label for the unmodified plan
	Templates        []string          // Template names, one variant each
	Transforms       []string          // Transform specs, one variant each
	SavingsRates     []decimal.Decimal // Savings percents, one variant each
}

// Compare computes the base plan and one variant per template, transform
// spec and savings rate.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {
	if config == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}
	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}

	baseResult, err := ce.run(ctx, baseName, config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}
	baseResult.Description = transform.Describe(nil)

	alternatives := []ComparisonResult{}
	add := func(name, description string, transforms []transform.PlanTransform) error {
		modified, err := transform.ApplyTransforms(config, transforms)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
		altResult, err := ce.run(ctx, name, modified)
		if err != nil {
			return fmt.Errorf("failed to calculate %s: %w", name, err)
		}
		altResult.Description = description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
		return nil
	}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		if err := add(template.Name, template.Description, template.Transforms); err != nil {
			return nil, err
		}
	}

	for _, spec := range options.Transforms {
		tr, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		if err := add(spec, tr.Description(), []transform.PlanTransform{tr}); err != nil {
			return nil, err
		}
	}

	for _, rate := range options.SavingsRates {
		tr := &transform.SetSavingsPercent{Percent: rate}
		if err := add("save_"+rate.String()+"pct", tr.Description(), []transform.PlanTransform{tr}); err != nil {
			return nil, err
		}
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, name string, cfg *domain.Configuration) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}
	schedule, err := ce.CalcEngine.ComputeSchedule(calculation.InputsFromConfig(cfg))
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(name, cfg, schedule), nil
}
