package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in plan templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []PlanTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common budgeting what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, pct := range []int64{0, 5, 10, 15, 20} {
		registry.Register(Template{
			Name:        fmt.Sprintf("save_%dpct", pct),
			Description: fmt.Sprintf("Save %d%% of every paycheck", pct),
			Transforms: []PlanTransform{
				&SetSavingsPercent{Percent: decimal.NewFromInt(pct)},
			},
		})
	}

	registry.Register(Template{
		Name:        "raise_3pct",
		Description: "All income sources get a 3% raise",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("1.03")},
		},
	})

	registry.Register(Template{
		Name:        "raise_5pct",
		Description: "All income sources get a 5% raise",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("1.05")},
		},
	})

	registry.Register(Template{
		Name:        "income_cut_10pct",
		Description: "All income sources drop by 10%",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("0.90")},
		},
	})

	registry.Register(Template{
		Name:        "income_cut_25pct",
		Description: "All income sources drop by 25%",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("0.75")},
		},
	})

	registry.Register(Template{
		Name:        "horizon_6mo",
		Description: "Project six months instead of the plan's horizon",
		Transforms: []PlanTransform{
			&SetHorizon{Months: 6},
		},
	})

	registry.Register(Template{
		Name:        "lean",
		Description: "Lean month: income down 10% and savings paused",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("0.90")},
			&SetSavingsPercent{Percent: decimal.Zero},
		},
	})

	registry.Register(Template{
		Name:        "stretch",
		Description: "Stretch goal: 3% raise and 20% savings",
		Transforms: []PlanTransform{
			&ScaleIncome{Factor: decimal.RequireFromString("1.03")},
			&SetSavingsPercent{Percent: decimal.NewFromInt(20)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base *domain.Configuration, template Template) (*domain.Configuration, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "save_"):
			categories["Savings Rate"] = append(categories["Savings Rate"], template)
		case strings.HasPrefix(name, "raise_"), strings.HasPrefix(name, "income_"):
			categories["Income Changes"] = append(categories["Income Changes"], template)
		case strings.HasPrefix(name, "horizon_"):
			categories["Horizon"] = append(categories["Horizon"], template)
		default:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		}
	}

	for _, category := range []string{"Savings Rate", "Income Changes", "Horizon", "Combination Strategies"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  billplan compare plan.yaml --with save_10pct,save_20pct\n")
	sb.WriteString("  billplan compare plan.yaml --with lean --transform delay_bill:bill=Rent,days=3\n")

	return sb.String()
}
