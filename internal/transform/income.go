package transform

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleIncome multiplies paycheck amounts by Factor. An empty Source
// scales every income source.
type ScaleIncome struct {
	Source string
	Factor decimal.Decimal
}

func (s *ScaleIncome) Name() string { return "scale_income" }

func (s *ScaleIncome) Description() string {
	pct := s.Factor.Sub(decimal.NewFromInt(1)).Mul(hundred)
	target := "all income"
	if s.Source != "" {
		target = s.Source
	}
	if pct.IsNegative() {
		return fmt.Sprintf("Cut %s by %s%%", target, pct.Neg().StringFixed(1))
	}
	return fmt.Sprintf("Raise %s by %s%%", target, pct.StringFixed(1))
}

func (s *ScaleIncome) Validate(base *domain.Configuration) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base plan cannot be nil", nil)
	}
	if s.Factor.IsNegative() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", s.Factor), nil)
	}
	if s.Source != "" && findSource(base, s.Source) < 0 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("income source %s not found in plan", s.Source), nil)
	}
	return nil
}

func (s *ScaleIncome) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	for i := range modified.IncomeSources {
		src := &modified.IncomeSources[i]
		if s.Source == "" || src.Name == s.Source || src.ID == s.Source {
			src.Amount = src.Amount.Mul(s.Factor).Round(2)
		}
	}
	return modified, nil
}

// ChangeFrequency switches an income source to another pay schedule.
type ChangeFrequency struct {
	Source    string
	Frequency domain.Frequency
}

func (c *ChangeFrequency) Name() string { return "change_frequency" }

func (c *ChangeFrequency) Description() string {
	return fmt.Sprintf("Pay %s %s", c.Source, c.Frequency)
}

func (c *ChangeFrequency) Validate(base *domain.Configuration) error {
	if base == nil {
		return NewTransformError(c.Name(), "validate", "base plan cannot be nil", nil)
	}
	if !c.Frequency.Valid() {
		return NewTransformError(c.Name(), "validate", fmt.Sprintf("unknown frequency %q", c.Frequency), nil)
	}
	if findSource(base, c.Source) < 0 {
		return NewTransformError(c.Name(), "validate", fmt.Sprintf("income source %s not found in plan", c.Source), nil)
	}
	return nil
}

func (c *ChangeFrequency) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	modified.IncomeSources[findSource(modified, c.Source)].Frequency = c.Frequency
	return modified, nil
}

func findSource(cfg *domain.Configuration, ref string) int {
	for i, src := range cfg.IncomeSources {
		if src.Name == ref || (src.ID != "" && src.ID == ref) {
			return i
		}
	}
	return -1
}
