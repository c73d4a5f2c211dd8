// Package schedule edits a computed schedule in place, keeping per-paycheck
// funding consistent and recording each edit as a bill override.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrAllocationNotFound = errors.New("no paycheck on that date")
	ErrBillNotFound       = errors.New("bill not found on paycheck")
	ErrInvalidDirection   = errors.New("direction must be up or down")
)

// Direction moves a bill to the previous (up) or next (down) paycheck.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts up/down and the aliases earlier/later, prev/next.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "earlier", "prev", "previous":
		return Up, nil
	case "down", "later", "next":
		return Down, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) offset() (int, error) {
	switch d {
	case Up:
		return -1, nil
	case Down:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
}

// OverrideStore records where the user pinned a bill instance.
type OverrideStore interface {
	SaveOverride(ctx context.Context, instanceID string, paycheckDate domain.Date) error
}

// MoveResult describes an applied move.
type MoveResult struct {
	InstanceID string      `json:"instanceId"`
	BillName   string      `json:"billName"`
	From       domain.Date `json:"from"`
	To         domain.Date `json:"to"`
	Moved      bool        `json:"moved"`
}

// Mutator applies interactive edits to a schedule.
type Mutator struct {
	store  OverrideStore
	logger calculation.Logger
}

// NewMutator creates a mutator persisting through store. A nil store
// applies moves in memory only.
func NewMutator(store OverrideStore) *Mutator {
	return &Mutator{store: store, logger: calculation.NopLogger{}}
}

// SetLogger sets the logger; nil installs a NopLogger.
func (m *Mutator) SetLogger(l calculation.Logger) {
	if l == nil {
		m.logger = calculation.NopLogger{}
		return
	}
	m.logger = l
}

// MoveBill moves the bill identified by billRef (instance ID or bill name)
// from the paycheck on fromPayDate to the adjacent paycheck. Moving past
// either end of the visible schedule, or into a buffer paycheck, is a
// no-op with Moved false.
//
// The bill's payment amount is transferred between the two UsedFunds
// totals, so moving up and back down restores both totals exactly.
// Underfunded flags in both paychecks are re-derived by size.
//
// The schedule is updated before the override is saved; a store error is
// returned but the in-memory move stands.
func (m *Mutator) MoveBill(ctx context.Context, s *domain.Schedule, billRef string, fromPayDate domain.Date, dir Direction) (MoveResult, error) {
	offset, err := dir.offset()
	if err != nil {
		return MoveResult{}, err
	}

	from := s.IndexOf(fromPayDate)
	if from < 0 {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrAllocationNotFound, fromPayDate)
	}
	src := &s.Allocations[from]

	bi := findBill(src.Bills, billRef)
	if bi < 0 {
		return MoveResult{}, notFound(src, billRef)
	}
	moving := src.Bills[bi]
	result := MoveResult{InstanceID: moving.InstanceID, BillName: moving.Bill.Name, From: src.PayDate}

	to := from + offset
	if to < 0 || to >= len(s.Allocations) || s.Allocations[to].IsBuffer {
		m.logger.Debugf("move %s %s from %s: no adjacent paycheck", moving.InstanceID, dir, src.PayDate)
		result.To = src.PayDate
		return result, nil
	}
	dst := &s.Allocations[to]

	src.Bills = append(src.Bills[:bi:bi], src.Bills[bi+1:]...)
	moved := calculation.NewAllocatedBill(moving.BillInstance, dst.PayDate, domain.TierMoved, moving.IsUnderfunded)
	dst.Bills = append(dst.Bills, moved)

	src.UsedFunds = src.UsedFunds.Sub(moving.Amount())
	dst.UsedFunds = dst.UsedFunds.Add(moving.Amount())
	RecomputeFunding(src)
	RecomputeFunding(dst)

	result.To = dst.PayDate
	result.Moved = true
	m.logger.Infof("moved %s from %s to %s", moving.InstanceID, src.PayDate, dst.PayDate)

	if m.store != nil {
		if err := m.store.SaveOverride(ctx, moving.InstanceID, dst.PayDate); err != nil {
			m.logger.Errorf("save override %s: %v", moving.InstanceID, err)
			return result, fmt.Errorf("persist override for %s: %w", moving.InstanceID, err)
		}
	}
	return result, nil
}

// RecomputeFunding re-derives underfunded flags for an allocation, giving
// larger bills first claim on the paycheck. UsedFunds and bill order are
// left unchanged.
func RecomputeFunding(a *domain.Allocation) {
	order := make([]int, len(a.Bills))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return a.Bills[order[i]].Amount().GreaterThan(a.Bills[order[j]].Amount())
	})

	running := decimal.Zero
	for _, idx := range order {
		b := &a.Bills[idx]
		next := running.Add(b.Amount())
		if next.GreaterThan(a.PaycheckAmount) {
			b.IsUnderfunded = true
			continue
		}
		b.IsUnderfunded = false
		running = next
	}
}

func findBill(bills []domain.AllocatedBill, ref string) int {
	for i, b := range bills {
		if b.InstanceID == ref {
			return i
		}
	}
	for i, b := range bills {
		if b.Bill.Name == ref {
			return i
		}
	}
	return -1
}

// notFound suggests the closest bill name on the paycheck.
func notFound(a *domain.Allocation, ref string) error {
	best, bestDist := "", -1
	for _, b := range a.Bills {
		dist := levenshtein.ComputeDistance(strings.ToLower(ref), strings.ToLower(b.Bill.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = b.Bill.Name, dist
		}
	}
	if best != "" && bestDist <= max(2, len(ref)/3) {
		return fmt.Errorf("%w: %q on %s (did you mean %q?)", ErrBillNotFound, ref, a.PayDate, best)
	}
	return fmt.Errorf("%w: %q on %s", ErrBillNotFound, ref, a.PayDate)
}
