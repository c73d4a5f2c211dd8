package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rgehrsitz/billplan/internal/domain"
)

// MemoryStore keeps everything in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu              sync.RWMutex
	overrides       domain.Overrides
	savings         map[string]domain.PaycheckSavings
	payments        map[domain.RecordKey]domain.BillPayment
	amountOverrides map[domain.RecordKey]domain.BillAmountOverride
}

// NewMemoryStore returns an empty store, optionally seeded with overrides.
func NewMemoryStore(seed domain.Overrides) *MemoryStore {
	m := &MemoryStore{
		overrides:       make(domain.Overrides, len(seed)),
		savings:         make(map[string]domain.PaycheckSavings),
		payments:        make(map[domain.RecordKey]domain.BillPayment),
		amountOverrides: make(map[domain.RecordKey]domain.BillAmountOverride),
	}
	for k, v := range seed {
		m.overrides[k] = v
	}
	return m
}

func (m *MemoryStore) SaveOverride(ctx context.Context, instanceID string, paycheckDate domain.Date) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[instanceID] = paycheckDate
	return nil
}

func (m *MemoryStore) DeleteOverride(ctx context.Context, instanceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.overrides[instanceID]; !ok {
		return ErrNotFound
	}
	delete(m.overrides, instanceID)
	return nil
}

func (m *MemoryStore) ListOverrides(ctx context.Context) (domain.Overrides, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(domain.Overrides, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) SaveSavings(ctx context.Context, rec domain.PaycheckSavings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savings[rec.PaycheckDate.String()] = rec
	return nil
}

func (m *MemoryStore) ListSavings(ctx context.Context) ([]domain.PaycheckSavings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.PaycheckSavings, 0, len(m.savings))
	for _, r := range m.savings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaycheckDate.Before(out[j].PaycheckDate) })
	return out, nil
}

func (m *MemoryStore) SavePayment(ctx context.Context, p domain.BillPayment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.Key()] = p
	return nil
}

func (m *MemoryStore) ListPayments(ctx context.Context) ([]domain.BillPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BillPayment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key(), out[j].Key()) })
	return out, nil
}

func (m *MemoryStore) SaveAmountOverride(ctx context.Context, o domain.BillAmountOverride) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amountOverrides[o.Key()] = o
	return nil
}

func (m *MemoryStore) ListAmountOverrides(ctx context.Context) ([]domain.BillAmountOverride, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BillAmountOverride, 0, len(m.amountOverrides))
	for _, o := range m.amountOverrides {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key(), out[j].Key()) })
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// lessKey orders by paycheck date, then due date, then bill name, matching
// the sqlite store's ORDER BY.
func lessKey(a, b domain.RecordKey) bool {
	if a.PaycheckDate != b.PaycheckDate {
		return a.PaycheckDate < b.PaycheckDate
	}
	if a.BillDueDate != b.BillDueDate {
		return a.BillDueDate < b.BillDueDate
	}
	return a.BillName < b.BillName
}
