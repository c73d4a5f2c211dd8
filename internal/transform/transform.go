package transform

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
)

// PlanTransform defines the interface for all plan transformations.
// Transforms are composable what-if edits used by compare, break-even
// analysis and the CLI.
type PlanTransform interface {
	// Apply returns a modified copy of base. base is never changed.
	Apply(base *domain.Configuration) (*domain.Configuration, error)

	// Name returns a short identifier (e.g. "set_savings").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Validate checks the transform against base without applying it.
	Validate(base *domain.Configuration) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one.
func ApplyTransforms(base *domain.Configuration, transforms []PlanTransform) (*domain.Configuration, error) {
	if base == nil {
		return nil, fmt.Errorf("base plan cannot be nil")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// Describe joins the descriptions of a transform chain.
func Describe(transforms []PlanTransform) string {
	if len(transforms) == 0 {
		return "Baseline plan"
	}
	out := ""
	for i, t := range transforms {
		if i > 0 {
			out += "; "
		}
		out += t.Description()
	}
	return out
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
