package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BillType controls how a bill expands over the planning horizon.
type BillType string

const (
	BillRecurring BillType = "recurring"
	BillOneTime   BillType = "one-time"
	BillOther     BillType = "other"
)

// ParseBillType normalizes user input such as "One Time" or "onetime".
func ParseBillType(s string) (BillType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "recurring", "monthly":
		return BillRecurring, nil
	case "one-time", "onetime", "one time", "one_time":
		return BillOneTime, nil
	case "other":
		return BillOther, nil
	}
	return "", fmt.Errorf("unknown bill type %q", s)
}

// Bill is an obligation the planner must fund from paychecks.
type Bill struct {
	ID                string          `yaml:"id,omitempty" json:"id,omitempty"`
	Name              string          `yaml:"name" json:"name"`
	PaymentAmount     decimal.Decimal `yaml:"payment_amount" json:"payment_amount"`
	APR               decimal.Decimal `yaml:"apr,omitempty" json:"apr,omitempty"`
	RemainingBalance  decimal.Decimal `yaml:"remaining_balance,omitempty" json:"remaining_balance,omitempty"`
	DueDate           Date            `yaml:"due_date" json:"due_date"`
	Type              BillType        `yaml:"type" json:"type"`
	AllowableLateDays int             `yaml:"allowable_late_days,omitempty" json:"allowable_late_days,omitempty"`
}

// BaseID identifies the bill across all of its instances.
func (b Bill) BaseID() string {
	return b.Name + "-" + b.DueDate.String()
}

// IsRecurring reports whether the bill repeats monthly.
func (b Bill) IsRecurring() bool {
	return b.Type == BillRecurring
}

// BillInstance is one dated occurrence of a bill.
type BillInstance struct {
	Bill       Bill   `json:"bill"`
	DueDate    Date   `json:"dueDate"`
	InstanceID string `json:"instanceId"`
	BaseID     string `json:"baseId"`
	Sequence   int    `json:"sequence"`
}

// Amount is the payment owed for this occurrence.
func (bi BillInstance) Amount() decimal.Decimal {
	return bi.Bill.PaymentAmount
}

// RecurringInstanceID names occurrence n of a recurring bill.
func RecurringInstanceID(name string, n int, due Date) string {
	return fmt.Sprintf("%s-%d-%s", name, n, due)
}

// SingleInstanceID names the only occurrence of a non-recurring bill.
func SingleInstanceID(name string, due Date) string {
	return name + "-single-" + due.String()
}

// OneTimeBill is an expense pinned to a specific paycheck by the user.
// It is not scheduled by the allocator; it reduces the paycheck's remaining funds.
type OneTimeBill struct {
	ID           string          `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string          `yaml:"name" json:"name"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
	PaycheckDate Date            `yaml:"paycheck_date" json:"paycheck_date"`
	DueDate      *Date           `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	IsPaid       bool            `yaml:"is_paid,omitempty" json:"is_paid,omitempty"`
}
