package transform

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SetSavingsPercent replaces the share of every paycheck set aside.
type SetSavingsPercent struct {
	Percent decimal.Decimal
}

func (s *SetSavingsPercent) Name() string { return "set_savings" }

func (s *SetSavingsPercent) Description() string {
	return fmt.Sprintf("Save %s%% of each paycheck", s.Percent)
}

func (s *SetSavingsPercent) Validate(base *domain.Configuration) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base plan cannot be nil", nil)
	}
	if s.Percent.IsNegative() || s.Percent.GreaterThan(hundred) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("percent must be between 0 and 100, got %s", s.Percent), nil)
	}
	return nil
}

func (s *SetSavingsPercent) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	modified.SavingsPercent = s.Percent
	return modified, nil
}

// SetHorizon changes how many months are projected.
type SetHorizon struct {
	Months int
}

func (s *SetHorizon) Name() string { return "set_horizon" }

func (s *SetHorizon) Description() string {
	return fmt.Sprintf("Project %d months", s.Months)
}

func (s *SetHorizon) Validate(base *domain.Configuration) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base plan cannot be nil", nil)
	}
	if s.Months < 1 || s.Months > 36 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("months must be between 1 and 36, got %d", s.Months), nil)
	}
	return nil
}

func (s *SetHorizon) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	modified.MonthsToShow = s.Months
	return modified, nil
}
