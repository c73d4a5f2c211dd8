// Package report derives savings figures and summary statistics from a
// computed schedule. Nothing here changes the schedule.
package report

import (
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	weeksPerMonth = decimal.RequireFromString("4.345")
	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(12)
)

// MonthlyIncome converts one source's per-paycheck amount to a monthly figure.
func MonthlyIncome(src domain.IncomeSource) decimal.Decimal {
	switch src.Frequency {
	case domain.FrequencyWeekly:
		return src.Amount.Mul(weeksPerMonth)
	case domain.FrequencyBiweekly, domain.FrequencyTwiceMonthly:
		return src.Amount.Mul(decimal.NewFromInt(2))
	default:
		return src.Amount
	}
}

// MonthlyIncomeTotal sums MonthlyIncome over every source.
func MonthlyIncomeTotal(sources []domain.IncomeSource) decimal.Decimal {
	total := decimal.Zero
	for _, src := range sources {
		total = total.Add(MonthlyIncome(src))
	}
	return total
}

// YearlyIncome is twelve months of MonthlyIncomeTotal.
func YearlyIncome(sources []domain.IncomeSource) decimal.Decimal {
	return MonthlyIncomeTotal(sources).Mul(twelve)
}

// Savings is the projected savings for a plan.
type Savings struct {
	Monthly decimal.Decimal `json:"monthly"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

// ProjectSavings applies percent to monthly income over months.
func ProjectSavings(sources []domain.IncomeSource, percent decimal.Decimal, months int) Savings {
	monthly := MonthlyIncomeTotal(sources).Mul(percent).Div(hundred)
	return Savings{
		Monthly: monthly,
		Total:   monthly.Mul(decimal.NewFromInt(int64(months))),
		Percent: percent,
	}
}

// Records is the user bookkeeping layered over a schedule.
type Records struct {
	Savings         []domain.PaycheckSavings
	Payments        []domain.BillPayment
	AmountOverrides []domain.BillAmountOverride
}

// BillLine is a placed bill as shown to the user.
type BillLine struct {
	domain.AllocatedBill
	Amount     decimal.Decimal `json:"amount"`
	IsPaid     bool            `json:"isPaid"`
	Overridden bool            `json:"amountOverridden,omitempty"`
}

// PaycheckLine is one visible paycheck with savings and payment status.
type PaycheckLine struct {
	domain.Allocation
	Lines            []BillLine      `json:"lines"`
	SavingsAmount    decimal.Decimal `json:"savingsAmount"`
	SavingsCustom    bool            `json:"savingsCustom,omitempty"`
	SavingsDeposited bool            `json:"savingsDeposited"`
	BillTotal        decimal.Decimal `json:"billTotal"`
}

// DefaultSavings is gross * percent / 100.
func DefaultSavings(gross, percent decimal.Decimal) decimal.Decimal {
	return gross.Mul(percent).Div(hundred)
}

// Paychecks joins the visible allocations with the user's records.
func Paychecks(s *domain.Schedule, rec Records) []PaycheckLine {
	savings := make(map[string]domain.PaycheckSavings, len(rec.Savings))
	for _, r := range rec.Savings {
		savings[r.PaycheckDate.String()] = r
	}
	paid := make(map[domain.RecordKey]bool, len(rec.Payments))
	for _, p := range rec.Payments {
		paid[p.Key()] = p.IsPaid
	}
	amounts := make(map[domain.RecordKey]decimal.Decimal, len(rec.AmountOverrides))
	for _, o := range rec.AmountOverrides {
		amounts[o.Key()] = o.Amount
	}

	visible := s.Visible()
	out := make([]PaycheckLine, 0, len(visible))
	for _, a := range visible {
		line := PaycheckLine{
			Allocation:    a,
			SavingsAmount: DefaultSavings(a.GrossAmount, s.SavingsPercent),
			BillTotal:     decimal.Zero,
		}
		if r, ok := savings[a.PayDate.String()]; ok {
			line.SavingsAmount = r.Amount
			line.SavingsCustom = true
			line.SavingsDeposited = r.IsDeposited
		}
		for _, b := range a.Bills {
			key := domain.KeyFor(b.Bill.Name, b.DueDate, a.PayDate)
			bl := BillLine{AllocatedBill: b, Amount: b.Amount(), IsPaid: paid[key]}
			if amt, ok := amounts[key]; ok {
				bl.Amount = amt
				bl.Overridden = true
			}
			line.BillTotal = line.BillTotal.Add(bl.Amount)
			line.Lines = append(line.Lines, bl)
		}
		out = append(out, line)
	}
	return out
}

// Summary holds the headline numbers for a schedule.
type Summary struct {
	MonthlyIncome       decimal.Decimal `json:"monthlyIncome"`
	YearlyIncome        decimal.Decimal `json:"yearlyIncome"`
	Savings             Savings         `json:"savings"`
	Paychecks           int             `json:"paychecks"`
	BillCount           int             `json:"billCount"`
	TotalBillAmount     decimal.Decimal `json:"totalBillAmount"`
	SavingsTarget       decimal.Decimal `json:"savingsTarget"`
	SavingsDeposited    decimal.Decimal `json:"savingsDeposited"`
	SavingsProgress     decimal.Decimal `json:"savingsProgress"`
	AveragePaycheck     decimal.Decimal `json:"averagePaycheck"`
	AverageUsed         decimal.Decimal `json:"averageUsed"`
	AverageRemaining    decimal.Decimal `json:"averageRemaining"`
	AverageUsagePercent decimal.Decimal `json:"averageUsagePercent"`
	LateCount           int             `json:"lateCount"`
	CriticallyLateCount int             `json:"criticallyLateCount"`
	UnderfundedCount    int             `json:"underfundedCount"`
	PaidCount           int             `json:"paidCount"`
}

// Summarize computes headline statistics over the visible paychecks.
func Summarize(sources []domain.IncomeSource, s *domain.Schedule, rec Records) Summary {
	lines := Paychecks(s, rec)
	sum := Summary{
		MonthlyIncome:       MonthlyIncomeTotal(sources),
		YearlyIncome:        YearlyIncome(sources),
		Savings:             ProjectSavings(sources, s.SavingsPercent, s.MonthsToShow),
		Paychecks:           len(lines),
		TotalBillAmount:     decimal.Zero,
		SavingsTarget:       decimal.Zero,
		SavingsDeposited:    decimal.Zero,
		SavingsProgress:     decimal.Zero,
		AveragePaycheck:     decimal.Zero,
		AverageUsed:         decimal.Zero,
		AverageRemaining:    decimal.Zero,
		AverageUsagePercent: decimal.Zero,
	}
	if len(lines) == 0 {
		return sum
	}

	paycheckTotal, usedTotal, remainingTotal, usageTotal := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		sum.SavingsTarget = sum.SavingsTarget.Add(l.SavingsAmount)
		if l.SavingsDeposited {
			sum.SavingsDeposited = sum.SavingsDeposited.Add(l.SavingsAmount)
		}
		paycheckTotal = paycheckTotal.Add(l.PaycheckAmount)
		usedTotal = usedTotal.Add(l.UsedFunds)
		remainingTotal = remainingTotal.Add(l.Allocation.Remaining())
		if l.PaycheckAmount.IsPositive() {
			usageTotal = usageTotal.Add(l.UsedFunds.Div(l.PaycheckAmount).Mul(hundred))
		}
		for _, b := range l.Lines {
			sum.BillCount++
			sum.TotalBillAmount = sum.TotalBillAmount.Add(b.Amount)
			if b.IsLate {
				sum.LateCount++
			}
			if b.IsCriticallyLate {
				sum.CriticallyLateCount++
			}
			if b.IsUnderfunded {
				sum.UnderfundedCount++
			}
			if b.IsPaid {
				sum.PaidCount++
			}
		}
	}

	n := decimal.NewFromInt(int64(len(lines)))
	sum.AveragePaycheck = paycheckTotal.Div(n)
	sum.AverageUsed = usedTotal.Div(n)
	sum.AverageRemaining = remainingTotal.Div(n)
	sum.AverageUsagePercent = usageTotal.Div(n)
	if sum.SavingsTarget.IsPositive() {
		sum.SavingsProgress = sum.SavingsDeposited.Div(sum.SavingsTarget).Mul(hundred)
	}
	return sum
}
