package calculation

import (
	"sort"

	"github.com/rgehrsitz/billplan/internal/domain"
)

// ExpandBill turns a bill into its dated instances up to horizonEnd.
// Recurring bills step monthly from their due date, keeping the day of
// month clamped to each month's last day. Other bills produce one instance.
func ExpandBill(bill domain.Bill, horizonEnd domain.Date) []domain.BillInstance {
	baseID := bill.BaseID()
	if !bill.IsRecurring() {
		return []domain.BillInstance{{
			Bill:       bill,
			DueDate:    bill.DueDate,
			InstanceID: domain.SingleInstanceID(bill.Name, bill.DueDate),
			BaseID:     baseID,
		}}
	}

	var out []domain.BillInstance
	for n := 0; ; n++ {
		due := bill.DueDate.AddMonths(n)
		if due.After(horizonEnd) {
			break
		}
		inst := bill
		inst.DueDate = due
		out = append(out, domain.BillInstance{
			Bill:       inst,
			DueDate:    due,
			InstanceID: domain.RecurringInstanceID(bill.Name, n, due),
			BaseID:     baseID,
			Sequence:   n,
		})
	}
	return out
}

// ExpandBills expands every bill and returns the instances stably sorted by
// due date, plus the names of recurring bills that produced no instance.
func ExpandBills(bills []domain.Bill, horizonEnd domain.Date) ([]domain.BillInstance, []string) {
	var (
		all     []domain.BillInstance
		dropped []string
	)
	for _, b := range bills {
		instances := ExpandBill(b, horizonEnd)
		if len(instances) == 0 {
			dropped = append(dropped, b.Name)
			continue
		}
		all = append(all, instances...)
	}
	SortInstances(all)
	return all, dropped
}

// SortInstances orders instances by due date, keeping input order on ties.
func SortInstances(instances []domain.BillInstance) {
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].DueDate.Before(instances[j].DueDate)
	})
}
