package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.February, 29)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))

	var zero Date
	require.NoError(t, json.Unmarshal([]byte("null"), &zero))
	assert.True(t, zero.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"2024-13-01"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`20240101`), &back))
}

func TestDate_YAMLFailsClosed(t *testing.T) {
	var out struct {
		Due Date `yaml:"due"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("due: 2024-01-31\n"), &out))
	assert.Equal(t, "2024-01-31", out.Due.String())

	require.NoError(t, yaml.Unmarshal([]byte("due: \"2024-03-01\"\n"), &out))
	assert.Equal(t, "2024-03-01", out.Due.String())

	err := yaml.Unmarshal([]byte("due: next tuesday\n"), &out)
	assert.Error(t, err)
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-01-31")
	assert.Equal(t, "2024-02-29", d.AddMonths(1).String())
	assert.Equal(t, "2024-02-14", d.AddDays(14).String())
	assert.Equal(t, 29, d.DaysUntil(MustParseDate("2024-02-29")))
	assert.Equal(t, -1, d.DaysUntil(MustParseDate("2024-01-30")))
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{"weekly", FrequencyWeekly, false},
		{"Bi-Weekly", FrequencyBiweekly, false},
		{"twice_monthly", FrequencyTwiceMonthly, false},
		{"semi-monthly", FrequencyTwiceMonthly, false},
		{"MONTHLY", FrequencyMonthly, false},
		{"daily", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestIncomeSource_Defaults(t *testing.T) {
	src := IncomeSource{Name: "Job"}
	first, second := src.PayDays()
	assert.Equal(t, 1, first)
	assert.Equal(t, 15, second)

	src.EnsureID()
	again := IncomeSource{Name: "Job"}
	again.EnsureID()
	assert.NotEmpty(t, src.ID)
	assert.Equal(t, src.ID, again.ID, "ids derive from the name")
}

func TestInstanceIDs(t *testing.T) {
	due := MustParseDate("2024-03-15")
	assert.Equal(t, "Rent-2-2024-03-15", RecurringInstanceID("Rent", 2, due))
	assert.Equal(t, "Car-single-2024-03-15", SingleInstanceID("Car", due))
	assert.Equal(t, "Rent-2024-03-15", Bill{Name: "Rent", DueDate: due}.BaseID())
}

func TestNetOfSavings(t *testing.T) {
	got := NetOfSavings(decimal.NewFromInt(2000), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(1800)), "got %s", got)
}

func TestConfiguration_DeepCopy(t *testing.T) {
	last := MustParseDate("2024-01-05")
	orig := &Configuration{
		SavingsPercent: decimal.NewFromInt(5),
		IncomeSources:  []IncomeSource{{Name: "Job", LastPayDate: &last}},
		Bills:          []Bill{{Name: "Rent"}},
		Overrides:      Overrides{"Rent-0-2024-01-01": last},
	}

	cp := orig.DeepCopy()
	require.NotNil(t, cp)
	cp.Bills[0].Name = "Changed"
	*cp.IncomeSources[0].LastPayDate = MustParseDate("2030-01-01")
	cp.Overrides["new"] = last

	assert.Equal(t, "Rent", orig.Bills[0].Name)
	assert.Equal(t, "2024-01-05", orig.IncomeSources[0].LastPayDate.String())
	assert.Len(t, orig.Overrides, 1)
	assert.Nil(t, (*Configuration)(nil).DeepCopy())
}

func TestAllocation_Funds(t *testing.T) {
	a := Allocation{
		PaycheckAmount: decimal.NewFromInt(1000),
		UsedFunds:      decimal.NewFromInt(300),
		Bills: []AllocatedBill{
			{BillInstance: BillInstance{Bill: Bill{PaymentAmount: decimal.NewFromInt(300)}}},
			{BillInstance: BillInstance{Bill: Bill{PaymentAmount: decimal.NewFromInt(900)}}, IsUnderfunded: true},
		},
		OneTimeBills: []OneTimeBill{{Amount: decimal.NewFromInt(50)}},
	}
	assert.True(t, a.FundedTotal().Equal(decimal.NewFromInt(300)))
	assert.True(t, a.Available().Equal(decimal.NewFromInt(700)))
	assert.True(t, a.Remaining().Equal(decimal.NewFromInt(650)))
}
