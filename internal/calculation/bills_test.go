package calculation

import (
	"testing"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBill_Recurring(t *testing.T) {
	bill := domain.Bill{Name: "Rent", PaymentAmount: money(1200), DueDate: d("2024-01-31"), Type: domain.BillRecurring}

	instances := ExpandBill(bill, d("2024-04-15"))
	require.Len(t, instances, 3)

	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	for i, inst := range instances {
		assert.Equal(t, wantDates[i], inst.DueDate.String())
		assert.Equal(t, inst.DueDate, inst.Bill.DueDate, "snapshot carries the instance date")
		assert.Equal(t, "Rent-2024-01-31", inst.BaseID)
		assert.Equal(t, i, inst.Sequence)
	}
	assert.Equal(t, "Rent-0-2024-01-31", instances[0].InstanceID)
	assert.Equal(t, "Rent-1-2024-02-29", instances[1].InstanceID)
	assert.Equal(t, "2024-01-31", bill.DueDate.String(), "source bill untouched")
}

func TestExpandBill_HorizonIsInclusive(t *testing.T) {
	bill := domain.Bill{Name: "Phone", DueDate: d("2024-01-15"), Type: domain.BillRecurring}
	assert.Len(t, ExpandBill(bill, d("2024-02-15")), 2)
	assert.Len(t, ExpandBill(bill, d("2024-02-14")), 1)
}

func TestExpandBill_Single(t *testing.T) {
	for _, typ := range []domain.BillType{domain.BillOneTime, domain.BillOther} {
		bill := domain.Bill{Name: "Tax", DueDate: d("2025-04-15"), Type: typ}
		instances := ExpandBill(bill, d("2024-03-01"))
		require.Len(t, instances, 1, "single bills ignore the horizon")
		assert.Equal(t, "Tax-single-2025-04-15", instances[0].InstanceID)
		assert.Equal(t, "Tax-2025-04-15", instances[0].BaseID)
	}
}

func TestExpandBills_SortsAndReportsDropped(t *testing.T) {
	bills := []domain.Bill{
		{Name: "B", DueDate: d("2024-01-10"), Type: domain.BillOneTime},
		{Name: "Later", DueDate: d("2024-06-01"), Type: domain.BillRecurring},
		{Name: "A", DueDate: d("2024-01-10"), Type: domain.BillOneTime},
		{Name: "C", DueDate: d("2024-01-05"), Type: domain.BillRecurring},
	}
	instances, dropped := ExpandBills(bills, d("2024-02-01"))

	assert.Equal(t, []string{"Later"}, dropped)
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Bill.Name
	}
	assert.Equal(t, []string{"C", "B", "A"}, names, "ties keep input order")
}
