package store

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
)

// WithOverrides returns a copy of plan with the stored overrides layered
// over the plan's own. Stored placements win.
func WithOverrides(ctx context.Context, ovs OverrideStore, plan *domain.Configuration) (*domain.Configuration, error) {
	cfg := plan.DeepCopy()
	stored, err := ovs.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	if cfg.Overrides == nil {
		cfg.Overrides = make(domain.Overrides, len(stored))
	}
	for id, date := range stored {
		cfg.Overrides[id] = date
	}
	return cfg, nil
}

// LoadRecords reads all bookkeeping for report rendering.
func LoadRecords(ctx context.Context, rs RecordStore) (report.Records, error) {
	var rec report.Records
	var err error
	if rec.Savings, err = rs.ListSavings(ctx); err != nil {
		return rec, fmt.Errorf("list savings: %w", err)
	}
	if rec.Payments, err = rs.ListPayments(ctx); err != nil {
		return rec, fmt.Errorf("list payments: %w", err)
	}
	if rec.AmountOverrides, err = rs.ListAmountOverrides(ctx); err != nil {
		return rec, fmt.Errorf("list amount overrides: %w", err)
	}
	return rec, nil
}
