package domain

import (
	"github.com/shopspring/decimal"
)

// PaycheckSlot is one projected pay date.
type PaycheckSlot struct {
	Date        Date            `json:"date"`
	SourceID    string          `json:"sourceId"`
	SourceName  string          `json:"sourceName"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	IsBuffer    bool            `json:"isBuffer,omitempty"`
}

// NetAmount is the gross amount after the savings percentage is set aside.
func (p PaycheckSlot) NetAmount(savingsPercent decimal.Decimal) decimal.Decimal {
	return NetOfSavings(p.GrossAmount, savingsPercent)
}

// NetOfSavings returns gross * (1 - percent/100).
func NetOfSavings(gross, percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor)
}

// Tier records which allocation rule placed a bill.
type Tier string

const (
	TierOverride Tier = "override"
	TierFunded   Tier = "funded"
	TierUnfunded Tier = "unfunded"
	TierFallback Tier = "fallback"
	TierMoved    Tier = "moved"
)

// AllocatedBill is a bill instance placed on a paycheck.
type AllocatedBill struct {
	BillInstance
	IsLate           bool `json:"isLate"`
	IsCriticallyLate bool `json:"isCriticallyLate"`
	IsUnderfunded    bool `json:"isUnderfunded"`
	DaysLate         int  `json:"daysLate"`
	Tier             Tier `json:"tier"`
}

// Allocation is one paycheck with the bills assigned to it.
type Allocation struct {
	PayDate        Date            `json:"payDate"`
	SourceID       string          `json:"sourceId"`
	SourceName     string          `json:"sourceName"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	PaycheckAmount decimal.Decimal `json:"paycheckAmount"`
	UsedFunds      decimal.Decimal `json:"usedFunds"`
	Bills          []AllocatedBill `json:"bills"`
	OneTimeBills   []OneTimeBill   `json:"oneTimeBills,omitempty"`
	IsBuffer       bool            `json:"isBuffer,omitempty"`
}

// Available is the net amount not yet committed to funded bills.
func (a *Allocation) Available() decimal.Decimal {
	return a.PaycheckAmount.Sub(a.UsedFunds)
}

// OneTimeTotal sums the pinned one-time expenses.
func (a *Allocation) OneTimeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range a.OneTimeBills {
		total = total.Add(b.Amount)
	}
	return total
}

// Remaining is what is left after funded bills and pinned one-time expenses.
func (a *Allocation) Remaining() decimal.Decimal {
	return a.Available().Sub(a.OneTimeTotal())
}

// FundedTotal sums bills that are not underfunded.
func (a *Allocation) FundedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range a.Bills {
		if !b.IsUnderfunded {
			total = total.Add(b.Amount())
		}
	}
	return total
}

// Schedule is the full result of an allocation run.
type Schedule struct {
	Allocations    []Allocation            `json:"allocations"`
	Instances      map[string]BillInstance `json:"-"`
	SavingsPercent decimal.Decimal         `json:"savingsPercent"`
	MonthsToShow   int                     `json:"monthsToShow"`
	PayPeriodDays  int                     `json:"payPeriodDays"`
	Warnings       []string                `json:"warnings,omitempty"`
}

// Visible returns the allocations inside the requested horizon, without
// the trailing buffer paychecks. Bills placed on buffer paychecks remain
// reachable through Allocations.
func (s *Schedule) Visible() []Allocation {
	out := make([]Allocation, 0, len(s.Allocations))
	for _, a := range s.Allocations {
		if !a.IsBuffer {
			out = append(out, a)
		}
	}
	return out
}

// IndexOf returns the index of the allocation paid on date, or -1.
func (s *Schedule) IndexOf(date Date) int {
	for i := range s.Allocations {
		if s.Allocations[i].PayDate.Equal(date) {
			return i
		}
	}
	return -1
}

// PlacedCount counts bill instances across every allocation.
func (s *Schedule) PlacedCount() int {
	n := 0
	for _, a := range s.Allocations {
		n += len(a.Bills)
	}
	return n
}

// Overrides pins bill instances to paycheck dates, keyed by instance ID.
type Overrides map[string]Date
