// Package store persists the user's edits to a computed schedule: bill
// overrides, per-paycheck savings and bill payment status.
package store

import (
	"context"
	"errors"

	"github.com/rgehrsitz/billplan/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// OverrideStore persists manual bill placements keyed by instance ID.
type OverrideStore interface {
	SaveOverride(ctx context.Context, instanceID string, paycheckDate domain.Date) error
	DeleteOverride(ctx context.Context, instanceID string) error
	ListOverrides(ctx context.Context) (domain.Overrides, error)
}

// RecordStore persists per-paycheck bookkeeping.
type RecordStore interface {
	SaveSavings(ctx context.Context, rec domain.PaycheckSavings) error
	ListSavings(ctx context.Context) ([]domain.PaycheckSavings, error)
	SavePayment(ctx context.Context, p domain.BillPayment) error
	ListPayments(ctx context.Context) ([]domain.BillPayment, error)
	SaveAmountOverride(ctx context.Context, o domain.BillAmountOverride) error
	ListAmountOverrides(ctx context.Context) ([]domain.BillAmountOverride, error)
}

// Store is everything the CLI, API and TUI persist.
type Store interface {
	OverrideStore
	RecordStore
	Close() error
}

// SavingsByDate indexes savings records by paycheck date.
func SavingsByDate(recs []domain.PaycheckSavings) map[string]domain.PaycheckSavings {
	out := make(map[string]domain.PaycheckSavings, len(recs))
	for _, r := range recs {
		out[r.PaycheckDate.String()] = r
	}
	return out
}

// PaymentsByKey indexes payments by bill instance and paycheck.
func PaymentsByKey(ps []domain.BillPayment) map[domain.RecordKey]domain.BillPayment {
	out := make(map[domain.RecordKey]domain.BillPayment, len(ps))
	for _, p := range ps {
		out[p.Key()] = p
	}
	return out
}

// AmountOverridesByKey indexes amount overrides by bill instance and paycheck.
func AmountOverridesByKey(list []domain.BillAmountOverride) map[domain.RecordKey]domain.BillAmountOverride {
	out := make(map[domain.RecordKey]domain.BillAmountOverride, len(list))
	for _, o := range list {
		out[o.Key()] = o
	}
	return out
}
