package domain

import (
	"github.com/shopspring/decimal"
)

// PaycheckSavings replaces the default savings amount for one paycheck
// and tracks whether it was actually deposited.
type PaycheckSavings struct {
	PaycheckDate Date            `json:"paycheckDate"`
	Amount       decimal.Decimal `json:"amount"`
	IsDeposited  bool            `json:"isDeposited"`
}

// BillPayment records the paid status of a bill instance on a paycheck.
type BillPayment struct {
	PaycheckDate Date   `json:"paycheckDate"`
	BillName     string `json:"billName"`
	BillDueDate  Date   `json:"billDueDate"`
	IsPaid       bool   `json:"isPaid"`
}

// BillAmountOverride changes the amount shown for one bill instance on one paycheck.
type BillAmountOverride struct {
	BillName     string          `json:"billName"`
	BillDueDate  Date            `json:"billDueDate"`
	PaycheckDate Date            `json:"paycheckDate"`
	Amount       decimal.Decimal `json:"amount"`
}

// RecordKey identifies a placed bill instance on a paycheck.
type RecordKey struct {
	BillName     string
	BillDueDate  string
	PaycheckDate string
}

// KeyFor builds the lookup key for a bill instance placed on a paycheck.
func KeyFor(billName string, due, payDate Date) RecordKey {
	return RecordKey{BillName: billName, BillDueDate: due.String(), PaycheckDate: payDate.String()}
}

// Key returns the lookup key for the payment.
func (p BillPayment) Key() RecordKey {
	return KeyFor(p.BillName, p.BillDueDate, p.PaycheckDate)
}

// Key returns the lookup key for the amount override.
func (o BillAmountOverride) Key() RecordKey {
	return KeyFor(o.BillName, o.BillDueDate, o.PaycheckDate)
}
