package calculation

import (
	"testing"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotDates(slots []domain.PaycheckSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Date.String()
	}
	return out
}

func TestGeneratePaychecks(t *testing.T) {
	tests := []struct {
		name   string
		source domain.IncomeSource
		months int
		want   []string
	}{
		{
			name:   "monthly clamps to month end",
			source: domain.IncomeSource{Frequency: domain.FrequencyMonthly, LastPayDate: datePtr("2024-01-31")},
			months: 3,
			want:   []string{"2024-01-31", "2024-02-29", "2024-03-31"},
		},
		{
			name:   "biweekly",
			source: domain.IncomeSource{Frequency: domain.FrequencyBiweekly, LastPayDate: datePtr("2024-01-05")},
			months: 2,
			want:   []string{"2024-01-05", "2024-01-19", "2024-02-02", "2024-02-16"},
		},
		{
			name:   "twicemonthly skips first-month dates before anchor",
			source: domain.IncomeSource{Frequency: domain.FrequencyTwiceMonthly, LastPayDate: datePtr("2024-01-10")},
			months: 2,
			want:   []string{"2024-01-15", "2024-02-01", "2024-02-15"},
		},
		{
			name:   "twicemonthly keeps anchor day itself",
			source: domain.IncomeSource{Frequency: domain.FrequencyTwiceMonthly, LastPayDate: datePtr("2024-01-01")},
			months: 1,
			want:   []string{"2024-01-01", "2024-01-15"},
		},
		{
			name: "twicemonthly sorts and clamps day anchors",
			source: domain.IncomeSource{
				Frequency: domain.FrequencyTwiceMonthly, LastPayDate: datePtr("2024-02-01"),
				FirstPayDay: 31, SecondPayDay: 15,
			},
			months: 1,
			want:   []string{"2024-02-15", "2024-02-29"},
		},
		{
			name:   "missing anchor",
			source: domain.IncomeSource{Frequency: domain.FrequencyWeekly},
			months: 3,
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slotDates(GeneratePaychecks(tt.source, tt.months)))
		})
	}
}

func TestGeneratePaychecks_WeeklyCount(t *testing.T) {
	src := domain.IncomeSource{Name: "Shift", Amount: money(500), Frequency: domain.FrequencyWeekly, LastPayDate: datePtr("2024-01-05")}

	slots := GeneratePaychecks(src, 2)
	require.Len(t, slots, 9, "round(4.345 * 2)")
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 7, slots[i-1].Date.DaysUntil(slots[i].Date))
	}
	assert.Equal(t, "Shift", slots[0].SourceName)
	assert.True(t, slots[0].GrossAmount.Equal(money(500)))

	assert.Len(t, GeneratePaychecks(src, 3), 13)
}

func TestMergeTimeline(t *testing.T) {
	sources := []domain.IncomeSource{
		{ID: "a", Frequency: domain.FrequencyMonthly, LastPayDate: datePtr("2024-01-20")},
		{ID: "b", Frequency: domain.FrequencyBiweekly, LastPayDate: datePtr("2024-01-05")},
		{ID: "c"},
	}
	merged := MergeTimeline(sources, 1)
	assert.Equal(t, []string{"2024-01-05", "2024-01-19", "2024-01-20"}, slotDates(merged))
	assert.Equal(t, "b", merged[0].SourceID)
	assert.Equal(t, "a", merged[2].SourceID)
}

func TestExtendTimeline(t *testing.T) {
	base := GeneratePaychecks(domain.IncomeSource{ID: "job", Amount: money(100), Frequency: domain.FrequencyBiweekly, LastPayDate: datePtr("2024-01-05")}, 1)

	extended := ExtendTimeline(base, BufferSlots)
	assert.Equal(t, []string{"2024-01-05", "2024-01-19", "2024-02-02", "2024-02-16"}, slotDates(extended))
	assert.False(t, extended[1].IsBuffer)
	assert.True(t, extended[2].IsBuffer)
	assert.True(t, extended[3].IsBuffer)
	assert.Equal(t, "job", extended[3].SourceID)
	assert.Len(t, base, 2, "input is not modified")

	single := base[:1]
	assert.Equal(t, single, ExtendTimeline(single, BufferSlots), "fewer than two slots are not extended")
}

func TestPayPeriodLength(t *testing.T) {
	assert.Equal(t, DefaultPayPeriodDays, PayPeriodLength(nil))

	slots := []domain.PaycheckSlot{{Date: d("2024-01-01")}, {Date: d("2024-01-08")}}
	assert.Equal(t, 7, PayPeriodLength(slots))

	sameDay := []domain.PaycheckSlot{{Date: d("2024-01-01")}, {Date: d("2024-01-01")}}
	assert.Equal(t, DefaultPayPeriodDays, PayPeriodLength(sameDay))
}
