package calculation

import (
	"testing"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocationsOn(amount int64, dates ...string) []domain.Allocation {
	out := make([]domain.Allocation, len(dates))
	for i, s := range dates {
		out[i] = domain.Allocation{PayDate: d(s), PaycheckAmount: money(amount)}
	}
	return out
}

func single(name string, amount int64, due string, allowable int) domain.BillInstance {
	bill := domain.Bill{Name: name, PaymentAmount: money(amount), DueDate: d(due), Type: domain.BillOneTime, AllowableLateDays: allowable}
	return ExpandBill(bill, d(due))[0]
}

func TestAllocate_UnderfundedCascadeAvoidance(t *testing.T) {
	allocs := allocationsOn(150, "2024-01-01")
	instances := []domain.BillInstance{
		single("First", 100, "2024-01-01", 0),
		single("Second", 100, "2024-01-01", 0),
	}

	NewCalculationEngine().Allocate(instances, allocs, nil)

	require.Len(t, allocs[0].Bills, 2)
	assert.Equal(t, "First", allocs[0].Bills[0].Bill.Name)
	assert.False(t, allocs[0].Bills[0].IsUnderfunded)
	assert.Equal(t, domain.TierFunded, allocs[0].Bills[0].Tier)
	assert.True(t, allocs[0].Bills[1].IsUnderfunded)
	assert.Equal(t, domain.TierUnfunded, allocs[0].Bills[1].Tier)
	assert.True(t, allocs[0].UsedFunds.Equal(money(100)), "used %s", allocs[0].UsedFunds)
}

func TestAllocate_GracePeriodBoundary(t *testing.T) {
	engine := NewCalculationEngine()

	atBoundary := allocationsOn(1000, "2024-01-11")
	engine.Allocate([]domain.BillInstance{single("Card", 100, "2024-01-01", 5)}, atBoundary, nil)
	require.Len(t, atBoundary[0].Bills, 1)
	placed := atBoundary[0].Bills[0]
	assert.Equal(t, domain.TierFunded, placed.Tier, "10 days late is inside the grace window")
	assert.True(t, placed.IsCriticallyLate)
	assert.True(t, placed.IsLate)
	assert.Equal(t, 10, placed.DaysLate)
	assert.False(t, placed.IsUnderfunded)

	beyond := allocationsOn(1000, "2024-01-12")
	engine.Allocate([]domain.BillInstance{single("Card", 100, "2024-01-01", 5)}, beyond, nil)
	require.Len(t, beyond[0].Bills, 1, "never dropped")
	placed = beyond[0].Bills[0]
	assert.Equal(t, domain.TierFallback, placed.Tier)
	assert.True(t, placed.IsCriticallyLate)
	assert.True(t, placed.IsUnderfunded)
	assert.Equal(t, 11, placed.DaysLate)
	assert.True(t, beyond[0].UsedFunds.IsZero())
}

func TestAllocate_OverridePrecedence(t *testing.T) {
	engine := NewCalculationEngine()
	inst := single("Rent", 100, "2024-01-01", 0)

	auto := allocationsOn(1000, "2024-01-01", "2024-01-15")
	engine.Allocate([]domain.BillInstance{inst}, auto, nil)
	require.Len(t, auto[0].Bills, 1, "scoring prefers the due date")

	pinned := allocationsOn(1000, "2024-01-01", "2024-01-15")
	engine.Allocate([]domain.BillInstance{inst}, pinned, domain.Overrides{inst.InstanceID: d("2024-01-15")})
	assert.Empty(t, pinned[0].Bills)
	require.Len(t, pinned[1].Bills, 1)
	b := pinned[1].Bills[0]
	assert.Equal(t, domain.TierOverride, b.Tier)
	assert.True(t, b.IsLate)
	assert.Equal(t, 14, b.DaysLate)
	assert.True(t, b.IsCriticallyLate)
	assert.False(t, b.IsUnderfunded)
	assert.True(t, pinned[1].UsedFunds.Equal(money(100)))
}

func TestAllocate_OverrideUnderfundedAndStale(t *testing.T) {
	engine := NewCalculationEngine()
	inst := single("Big", 500, "2024-01-01", 0)

	allocs := allocationsOn(100, "2024-01-01", "2024-01-15")
	engine.Allocate([]domain.BillInstance{inst}, allocs, domain.Overrides{inst.InstanceID: d("2024-01-15")})
	require.Len(t, allocs[1].Bills, 1)
	assert.True(t, allocs[1].Bills[0].IsUnderfunded)
	assert.True(t, allocs[1].UsedFunds.IsZero())

	stale := allocationsOn(1000, "2024-01-01", "2024-01-15")
	engine.Allocate([]domain.BillInstance{inst}, stale, domain.Overrides{inst.InstanceID: d("2023-12-01")})
	require.Len(t, stale[0].Bills, 1, "unknown override date falls back to scoring")
	assert.Equal(t, domain.TierFunded, stale[0].Bills[0].Tier)
}

func TestAllocate_PrefersFundedSlot(t *testing.T) {
	allocs := []domain.Allocation{
		{PayDate: d("2024-01-01"), PaycheckAmount: money(1000)},
		{PayDate: d("2024-01-05"), PaycheckAmount: money(50)},
	}
	NewCalculationEngine().Allocate([]domain.BillInstance{single("Water", 100, "2024-01-05", 0)}, allocs, nil)

	require.Len(t, allocs[0].Bills, 1)
	assert.Empty(t, allocs[1].Bills)
	assert.False(t, allocs[0].Bills[0].IsUnderfunded)
	assert.False(t, allocs[0].Bills[0].IsLate)
}

func TestAllocate_TooEarlyEverywhere(t *testing.T) {
	allocs := allocationsOn(1000, "2024-01-01", "2024-01-15")
	NewCalculationEngine().Allocate([]domain.BillInstance{single("Tuition", 100, "2024-06-01", 0)}, allocs, nil)

	require.Len(t, allocs[1].Bills, 1, "nearest slot when all are too early")
	assert.Equal(t, domain.TierFallback, allocs[1].Bills[0].Tier)
	assert.False(t, allocs[1].Bills[0].IsLate)
}

func TestAllocate_NoSlots(t *testing.T) {
	var allocs []domain.Allocation
	assert.NotPanics(t, func() {
		NewCalculationEngine().Allocate([]domain.BillInstance{single("X", 1, "2024-01-01", 0)}, allocs, nil)
	})
}

func TestAllocate_SortsByDueDate(t *testing.T) {
	allocs := allocationsOn(150, "2024-01-10")
	instances := []domain.BillInstance{
		single("Late", 100, "2024-01-10", 0),
		single("Early", 100, "2024-01-08", 5),
	}
	NewCalculationEngine().Allocate(instances, allocs, nil)

	require.Len(t, allocs[0].Bills, 2)
	assert.Equal(t, "Early", allocs[0].Bills[0].Bill.Name, "earlier due date is funded first")
	assert.False(t, allocs[0].Bills[0].IsUnderfunded)
	assert.True(t, allocs[0].Bills[1].IsUnderfunded)
	assert.Equal(t, "Late", instances[0].Bill.Name, "caller slice is not reordered")
}

func TestTimingScore(t *testing.T) {
	tests := []struct {
		name            string
		diff, allowable int
		want            int
	}{
		{"on due date", 0, 0, 250 + 100 + 50},
		{"three days early", -3, 0, 100 + 97 + 50},
		{"inside allowance", 2, 3, 300 + 98},
		{"grace window", 7, 3, 50 + 93 - 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timingScore(tt.diff, tt.allowable))
		})
	}
}
