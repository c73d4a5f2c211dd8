package transform

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

// AddBill adds a new bill to the plan.
type AddBill struct {
	Bill domain.Bill
}

func (a *AddBill) Name() string { return "add_bill" }

func (a *AddBill) Description() string {
	return fmt.Sprintf("Add %s bill %s of $%s due %s", a.Bill.Type, a.Bill.Name, a.Bill.PaymentAmount.StringFixed(2), a.Bill.DueDate)
}

func (a *AddBill) Validate(base *domain.Configuration) error {
	if base == nil {
		return NewTransformError(a.Name(), "validate", "base plan cannot be nil", nil)
	}
	if a.Bill.Name == "" {
		return NewTransformError(a.Name(), "validate", "bill name cannot be empty", nil)
	}
	if a.Bill.PaymentAmount.IsNegative() {
		return NewTransformError(a.Name(), "validate", "payment amount cannot be negative", nil)
	}
	if a.Bill.DueDate.IsZero() {
		return NewTransformError(a.Name(), "validate", "due date is required", nil)
	}
	if _, exists := base.FindBill(a.Bill.Name); exists {
		return NewTransformError(a.Name(), "validate", fmt.Sprintf("bill %s already exists", a.Bill.Name), nil)
	}
	return nil
}

func (a *AddBill) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	bill := a.Bill
	if bill.Type == "" {
		bill.Type = domain.BillRecurring
	}
	modified.Bills = append(modified.Bills, bill)
	return modified, nil
}

// RemoveBill drops a bill and any overrides pinned to its instances.
type RemoveBill struct {
	Bill string
}

func (r *RemoveBill) Name() string { return "remove_bill" }

func (r *RemoveBill) Description() string {
	return fmt.Sprintf("Remove bill %s", r.Bill)
}

func (r *RemoveBill) Validate(base *domain.Configuration) error {
	return requireBill(r.Name(), base, r.Bill)
}

func (r *RemoveBill) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	kept := modified.Bills[:0]
	for _, b := range modified.Bills {
		if b.Name != r.Bill {
			kept = append(kept, b)
		}
	}
	modified.Bills = kept
	for id := range modified.Overrides {
		if instanceOf(id, r.Bill) {
			delete(modified.Overrides, id)
		}
	}
	return modified, nil
}

// DelayBill moves a bill's due date by Days (negative pays earlier).
type DelayBill struct {
	Bill string
	Days int
}

func (d *DelayBill) Name() string { return "delay_bill" }

func (d *DelayBill) Description() string {
	if d.Days < 0 {
		return fmt.Sprintf("Move %s due date %d days earlier", d.Bill, -d.Days)
	}
	return fmt.Sprintf("Move %s due date %d days later", d.Bill, d.Days)
}

func (d *DelayBill) Validate(base *domain.Configuration) error {
	return requireBill(d.Name(), base, d.Bill)
}

func (d *DelayBill) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	bill, _ := modified.FindBill(d.Bill)
	bill.DueDate = bill.DueDate.AddDays(d.Days)
	return modified, nil
}

// SetBillAmount changes a bill's payment amount.
type SetBillAmount struct {
	Bill   string
	Amount decimal.Decimal
}

func (s *SetBillAmount) Name() string { return "set_bill_amount" }

func (s *SetBillAmount) Description() string {
	return fmt.Sprintf("Set %s to $%s", s.Bill, s.Amount.StringFixed(2))
}

func (s *SetBillAmount) Validate(base *domain.Configuration) error {
	if err := requireBill(s.Name(), base, s.Bill); err != nil {
		return err
	}
	if s.Amount.IsNegative() {
		return NewTransformError(s.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (s *SetBillAmount) Apply(base *domain.Configuration) (*domain.Configuration, error) {
	modified := base.DeepCopy()
	bill, _ := modified.FindBill(s.Bill)
	bill.PaymentAmount = s.Amount
	return modified, nil
}

func requireBill(name string, base *domain.Configuration, bill string) error {
	if base == nil {
		return NewTransformError(name, "validate", "base plan cannot be nil", nil)
	}
	if bill == "" {
		return NewTransformError(name, "validate", "bill name cannot be empty", nil)
	}
	if _, exists := base.FindBill(bill); !exists {
		return NewTransformError(name, "validate", fmt.Sprintf("bill %s not found in plan", bill), nil)
	}
	return nil
}

// instanceOf reports whether an instance ID belongs to the named bill.
// IDs are "<name>-<seq>-<date>" or "<name>-single-<date>".
func instanceOf(instanceID, bill string) bool {
	prefix := bill + "-"
	if len(instanceID) <= len(prefix) || instanceID[:len(prefix)] != prefix {
		return false
	}
	rest := instanceID[len(prefix):]
	// rest is "<seq|single>-YYYY-MM-DD"; a longer bill name sharing the
	// prefix would leave extra dashes.
	dashes := 0
	for _, r := range rest {
		if r == '-' {
			dashes++
		}
	}
	return dashes == 3
}
