package calculation

import (
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	// GracePeriodDays extends a bill's allowable lateness for best-fit search.
	GracePeriodDays = 5

	beforeDueBonus  = 50
	timeWeight      = 50
	proximityBase   = 100
	latenessPenalty = -500
	unfundedCushion = -1000
)

// Allocate places every instance on exactly one allocation, in due-date
// order. Resolution per instance: a manual override naming a present pay
// date, then the best funded slot, then the best slot ignoring funds, then
// the nearest slot. Allocations are mutated in place.
func (ce *CalculationEngine) Allocate(instances []domain.BillInstance, allocations []domain.Allocation, overrides domain.Overrides) {
	if len(allocations) == 0 {
		return
	}
	sorted := append([]domain.BillInstance(nil), instances...)
	SortInstances(sorted)

	period := payPeriodOf(allocations)
	for _, inst := range sorted {
		idx, tier, underfunded := ce.resolve(inst, allocations, overrides, period)
		place(&allocations[idx], inst, tier, underfunded)
		ce.Logger.Debugf("placed %s (due %s) on %s via %s", inst.InstanceID, inst.DueDate, allocations[idx].PayDate, tier)
	}
}

func (ce *CalculationEngine) resolve(inst domain.BillInstance, allocations []domain.Allocation, overrides domain.Overrides, period int) (int, domain.Tier, bool) {
	if date, ok := overrides[inst.InstanceID]; ok {
		if idx := indexOfPayDate(allocations, date); idx >= 0 {
			underfunded := inst.Amount().GreaterThan(allocations[idx].Available())
			return idx, domain.TierOverride, underfunded
		}
		ce.Logger.Warnf("override for %s names %s which is not a pay date; scheduling automatically", inst.InstanceID, date)
	}
	if idx := bestSlot(inst, allocations, period, true); idx >= 0 {
		return idx, domain.TierFunded, false
	}
	if idx := bestSlot(inst, allocations, period, false); idx >= 0 {
		return idx, domain.TierUnfunded, true
	}
	return fallbackSlot(inst, allocations, period), domain.TierFallback, true
}

// bestSlot returns the highest-scoring slot inside the timing window, or -1.
// Ties keep the earliest slot.
func bestSlot(inst domain.BillInstance, allocations []domain.Allocation, period int, requireFunds bool) int {
	allowable := inst.Bill.AllowableLateDays
	maxLate := allowable + GracePeriodDays
	amount := inst.Amount()

	best := -1
	var bestScore decimal.Decimal
	for i := range allocations {
		alloc := &allocations[i]
		diff := inst.DueDate.DaysUntil(alloc.PayDate)
		if diff < -period || diff > maxLate {
			continue
		}
		available := alloc.Available()
		hasFunds := amount.LessThanOrEqual(available)
		if requireFunds && !hasFunds {
			continue
		}

		cushion := decimal.NewFromInt(unfundedCushion)
		if hasFunds {
			cushion = available.Sub(amount)
		}
		score := cushion.Add(decimal.NewFromInt(int64(timingScore(diff, allowable))))
		if best < 0 || score.GreaterThan(bestScore) {
			best, bestScore = i, score
		}
	}
	return best
}

// timingScore is the non-monetary part of a slot's score.
func timingScore(diff, allowable int) int {
	abs := dateutil.AbsInt(diff)
	score := (allowable+GracePeriodDays-abs)*timeWeight + (proximityBase - abs)
	if diff <= 0 {
		score += beforeDueBonus
	}
	if diff > allowable && diff <= allowable+GracePeriodDays {
		score += latenessPenalty
	}
	return score
}

// fallbackSlot picks the slot nearest the due date that is not more than
// one pay period early. When every slot is too early it picks the nearest
// slot overall so the instance is never dropped.
func fallbackSlot(inst domain.BillInstance, allocations []domain.Allocation, period int) int {
	nearest, nearestAny := -1, 0
	nearestDiff, nearestAnyDiff := 0, dateutil.AbsInt(inst.DueDate.DaysUntil(allocations[0].PayDate))
	for i := range allocations {
		diff := inst.DueDate.DaysUntil(allocations[i].PayDate)
		abs := dateutil.AbsInt(diff)
		if abs < nearestAnyDiff {
			nearestAny, nearestAnyDiff = i, abs
		}
		if diff < -period {
			continue
		}
		if nearest < 0 || abs < nearestDiff {
			nearest, nearestDiff = i, abs
		}
	}
	if nearest < 0 {
		return nearestAny
	}
	return nearest
}

// place appends the instance with its lateness flags and charges the
// paycheck only when the bill is funded.
func place(alloc *domain.Allocation, inst domain.BillInstance, tier domain.Tier, underfunded bool) {
	alloc.Bills = append(alloc.Bills, NewAllocatedBill(inst, alloc.PayDate, tier, underfunded))
	if !underfunded {
		alloc.UsedFunds = alloc.UsedFunds.Add(inst.Amount())
	}
}

// NewAllocatedBill derives lateness flags for an instance paid on payDate.
func NewAllocatedBill(inst domain.BillInstance, payDate domain.Date, tier domain.Tier, underfunded bool) domain.AllocatedBill {
	diff := inst.DueDate.DaysUntil(payDate)
	daysLate := 0
	if diff > 0 {
		daysLate = diff
	}
	return domain.AllocatedBill{
		BillInstance:     inst,
		IsLate:           diff > 0,
		IsCriticallyLate: diff > inst.Bill.AllowableLateDays,
		IsUnderfunded:    underfunded,
		DaysLate:         daysLate,
		Tier:             tier,
	}
}

func indexOfPayDate(allocations []domain.Allocation, date domain.Date) int {
	for i := range allocations {
		if allocations[i].PayDate.Equal(date) {
			return i
		}
	}
	return -1
}

func payPeriodOf(allocations []domain.Allocation) int {
	if len(allocations) < 2 {
		return DefaultPayPeriodDays
	}
	if days := allocations[0].PayDate.DaysUntil(allocations[1].PayDate); days > 0 {
		return days
	}
	return DefaultPayPeriodDays
}
