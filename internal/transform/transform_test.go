package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

func createTestPlan() *domain.Configuration {
	last := domain.MustParseDate("2024-01-05")
	return &domain.Configuration{
		SavingsPercent: decimal.NewFromInt(10),
		MonthsToShow:   2,
		IncomeSources: []domain.IncomeSource{
			{ID: "job", Name: "Job", Amount: decimal.NewFromInt(2000), Frequency: domain.FrequencyBiweekly, LastPayDate: &last},
			{ID: "side", Name: "Side", Amount: decimal.NewFromInt(300), Frequency: domain.FrequencyMonthly, LastPayDate: &last},
		},
		Bills: []domain.Bill{
			{Name: "Rent", PaymentAmount: decimal.NewFromInt(1200), DueDate: domain.MustParseDate("2024-01-01"), Type: domain.BillRecurring},
			{Name: "Rent-Storage", PaymentAmount: decimal.NewFromInt(60), DueDate: domain.MustParseDate("2024-01-10"), Type: domain.BillRecurring},
		},
		Overrides: domain.Overrides{
			"Rent-1-2024-02-01":         domain.MustParseDate("2024-01-19"),
			"Rent-Storage-0-2024-01-10": domain.MustParseDate("2024-01-05"),
		},
	}
}

func TestApplyTransforms_NilPlan(t *testing.T) {
	_, err := ApplyTransforms(nil, []PlanTransform{&SetHorizon{Months: 3}})
	if err == nil {
		t.Error("Expected error for nil plan, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestPlan()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the base pointer")
	}
	result.Bills[0].Name = "Changed"
	if base.Bills[0].Name != "Rent" {
		t.Error("Copy shares bill storage with base")
	}
}

func TestApplyTransforms_Chained(t *testing.T) {
	base := createTestPlan()
	transforms := []PlanTransform{
		&SetSavingsPercent{Percent: decimal.NewFromInt(20)},
		&ScaleIncome{Source: "Job", Factor: decimal.RequireFromString("1.5")},
		&SetHorizon{Months: 4},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.SavingsPercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected savings 20, got %s", result.SavingsPercent)
	}
	if !result.IncomeSources[0].Amount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected Job 3000, got %s", result.IncomeSources[0].Amount)
	}
	if !result.IncomeSources[1].Amount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Side should be unchanged, got %s", result.IncomeSources[1].Amount)
	}
	if result.MonthsToShow != 4 {
		t.Errorf("Expected 4 months, got %d", result.MonthsToShow)
	}
	if !base.SavingsPercent.Equal(decimal.NewFromInt(10)) || base.MonthsToShow != 2 {
		t.Error("Base plan was modified")
	}
}

func TestApplyTransforms_ValidationStopsChain(t *testing.T) {
	base := createTestPlan()
	transforms := []PlanTransform{
		&SetSavingsPercent{Percent: decimal.NewFromInt(20)},
		&RemoveBill{Bill: "Nope"},
	}

	_, err := ApplyTransforms(base, transforms)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "remove_bill validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
	var te *TransformError
	if !errors.As(err, &te) {
		t.Error("Expected wrapped TransformError")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestPlan(), []PlanTransform{nil})
	if err == nil || !strings.Contains(err.Error(), "index 0 is nil") {
		t.Errorf("Expected nil transform error, got %v", err)
	}
}

func TestSetSavingsPercent_Validate(t *testing.T) {
	tests := []struct {
		pct     int64
		wantErr bool
	}{
		{0, false},
		{100, false},
		{-1, true},
		{101, true},
	}
	for _, tt := range tests {
		err := (&SetSavingsPercent{Percent: decimal.NewFromInt(tt.pct)}).Validate(createTestPlan())
		if (err != nil) != tt.wantErr {
			t.Errorf("percent %d: wantErr %v, got %v", tt.pct, tt.wantErr, err)
		}
	}
}

func TestSetHorizon_Validate(t *testing.T) {
	base := createTestPlan()
	if err := (&SetHorizon{Months: 0}).Validate(base); err == nil {
		t.Error("Expected error for zero months")
	}
	if err := (&SetHorizon{Months: 37}).Validate(base); err == nil {
		t.Error("Expected error for 37 months")
	}
	if err := (&SetHorizon{Months: 12}).Validate(base); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestScaleIncome(t *testing.T) {
	base := createTestPlan()

	all, err := (&ScaleIncome{Factor: decimal.RequireFromString("0.9")}).Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !all.IncomeSources[0].Amount.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("Expected 1800, got %s", all.IncomeSources[0].Amount)
	}
	if !all.IncomeSources[1].Amount.Equal(decimal.NewFromInt(270)) {
		t.Errorf("Expected 270, got %s", all.IncomeSources[1].Amount)
	}

	if err := (&ScaleIncome{Source: "Ghost", Factor: decimal.NewFromInt(1)}).Validate(base); err == nil {
		t.Error("Expected error for unknown source")
	}
	if err := (&ScaleIncome{Factor: decimal.NewFromInt(-1)}).Validate(base); err == nil {
		t.Error("Expected error for negative factor")
	}
	if err := (&ScaleIncome{Source: "side", Factor: decimal.NewFromInt(2)}).Validate(base); err != nil {
		t.Errorf("Source should match by id: %v", err)
	}
}

func TestScaleIncome_Description(t *testing.T) {
	raise := &ScaleIncome{Factor: decimal.RequireFromString("1.03")}
	if got := raise.Description(); got != "Raise all income by 3.0%" {
		t.Errorf("Unexpected description: %s", got)
	}
	cut := &ScaleIncome{Source: "Job", Factor: decimal.RequireFromString("0.75")}
	if got := cut.Description(); got != "Cut Job by 25.0%" {
		t.Errorf("Unexpected description: %s", got)
	}
}

func TestChangeFrequency(t *testing.T) {
	base := createTestPlan()
	tr := &ChangeFrequency{Source: "Side", Frequency: domain.FrequencyWeekly}
	if err := tr.Validate(base); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, _ := tr.Apply(base)
	if result.IncomeSources[1].Frequency != domain.FrequencyWeekly {
		t.Errorf("Expected weekly, got %s", result.IncomeSources[1].Frequency)
	}
	if base.IncomeSources[1].Frequency != domain.FrequencyMonthly {
		t.Error("Base plan was modified")
	}
	if err := (&ChangeFrequency{Source: "Side", Frequency: "daily"}).Validate(base); err == nil {
		t.Error("Expected error for unknown frequency")
	}
}

func TestAddBill(t *testing.T) {
	base := createTestPlan()
	bill := domain.Bill{Name: "Gym", PaymentAmount: decimal.NewFromInt(40), DueDate: domain.MustParseDate("2024-01-20")}

	result, err := ApplyTransforms(base, []PlanTransform{&AddBill{Bill: bill}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Bills) != 3 || len(base.Bills) != 2 {
		t.Fatalf("Expected 3 bills on result and 2 on base, got %d and %d", len(result.Bills), len(base.Bills))
	}
	if result.Bills[2].Type != domain.BillRecurring {
		t.Errorf("Expected default recurring type, got %s", result.Bills[2].Type)
	}

	dup := &AddBill{Bill: domain.Bill{Name: "Rent", DueDate: domain.MustParseDate("2024-01-01")}}
	if err := dup.Validate(base); err == nil {
		t.Error("Expected error for duplicate bill")
	}
	noDate := &AddBill{Bill: domain.Bill{Name: "X"}}
	if err := noDate.Validate(base); err == nil {
		t.Error("Expected error for missing due date")
	}
}

func TestRemoveBill_DropsOverrides(t *testing.T) {
	base := createTestPlan()

	result, err := ApplyTransforms(base, []PlanTransform{&RemoveBill{Bill: "Rent"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Bills) != 1 || result.Bills[0].Name != "Rent-Storage" {
		t.Fatalf("Unexpected bills: %+v", result.BillNames())
	}
	if _, ok := result.Overrides["Rent-1-2024-02-01"]; ok {
		t.Error("Override for removed bill should be dropped")
	}
	if _, ok := result.Overrides["Rent-Storage-0-2024-01-10"]; !ok {
		t.Error("Override for a bill sharing the name prefix must be kept")
	}
	if len(base.Bills) != 2 || len(base.Overrides) != 2 {
		t.Error("Base plan was modified")
	}
}

func TestDelayBill(t *testing.T) {
	base := createTestPlan()

	later, err := ApplyTransforms(base, []PlanTransform{&DelayBill{Bill: "Rent", Days: 3}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := later.Bills[0].DueDate.String(); got != "2024-01-04" {
		t.Errorf("Expected 2024-01-04, got %s", got)
	}
	if got := base.Bills[0].DueDate.String(); got != "2024-01-01" {
		t.Errorf("Base due date changed to %s", got)
	}

	earlier, _ := (&DelayBill{Bill: "Rent", Days: -2}).Apply(base)
	if got := earlier.Bills[0].DueDate.String(); got != "2023-12-30" {
		t.Errorf("Expected 2023-12-30, got %s", got)
	}
	if !strings.Contains((&DelayBill{Bill: "Rent", Days: -2}).Description(), "earlier") {
		t.Error("Negative delay should describe an earlier date")
	}
}

func TestSetBillAmount(t *testing.T) {
	base := createTestPlan()
	tr := &SetBillAmount{Bill: "Rent", Amount: decimal.NewFromInt(1300)}
	result, err := ApplyTransforms(base, []PlanTransform{tr})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Bills[0].PaymentAmount.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("Expected 1300, got %s", result.Bills[0].PaymentAmount)
	}
	if err := (&SetBillAmount{Bill: "Rent", Amount: decimal.NewFromInt(-5)}).Validate(base); err == nil {
		t.Error("Expected error for negative amount")
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(nil); got != "Baseline plan" {
		t.Errorf("Unexpected baseline description: %s", got)
	}
	got := Describe([]PlanTransform{&SetHorizon{Months: 3}, &RemoveBill{Bill: "Rent"}})
	if got != "Project 3 months; Remove bill Rent" {
		t.Errorf("Unexpected description: %s", got)
	}
}

func TestTransformError(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("delay_bill", "apply", "bad date", inner)
	if !errors.Is(err, inner) {
		t.Error("Expected TransformError to unwrap")
	}
	if err.Error() != "transform delay_bill (apply): bad date: boom" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if got := NewTransformError("x", "validate", "nope", nil).Error(); got != "transform x (validate): nope" {
		t.Errorf("Unexpected message: %s", got)
	}
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  string
	}{
		{spec: "set_savings:percent=12.5", wantName: "set_savings"},
		{spec: "set_horizon:months=6", wantName: "set_horizon"},
		{spec: "scale_income:factor=1.1", wantName: "scale_income"},
		{spec: "change_frequency:source=Job,frequency=Bi-Weekly", wantName: "change_frequency"},
		{spec: "add_bill:name=Gym,amount=40,due=2024-01-20,type=one-time,late_days=2", wantName: "add_bill"},
		{spec: "remove_bill:bill=Rent", wantName: "remove_bill"},
		{spec: "delay_bill:bill=Rent,days=-3", wantName: "delay_bill"},
		{spec: "set_bill_amount:bill=Rent,amount=999.99", wantName: "set_bill_amount"},
		{spec: "set_savings", wantErr: "expected 'name:params'"},
		{spec: "set_savings:percent", wantErr: "expected 'key=value'"},
		{spec: "set_savings:pct=5", wantErr: "requires 'percent' parameter"},
		{spec: "set_savings:percent=lots", wantErr: "invalid percent value"},
		{spec: "delay_bill:bill=Rent,days=x", wantErr: "invalid days value"},
		{spec: "add_bill:name=Gym,amount=40,due=01/20/2024", wantErr: "invalid due date"},
		{spec: "add_bill:name=Gym,amount=40,due=2024-01-20,type=yearly", wantErr: "invalid type value"},
		{spec: "teleport:x=1", wantErr: "unknown transform"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, tr.Name())
			}
		})
	}
}

func TestTransformRegistry_AddBillFields(t *testing.T) {
	tr, err := NewTransformRegistry().ParseTransformSpec("add_bill:name=Gym,amount=40,due=2024-01-20,type=One Time,late_days=2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	add := tr.(*AddBill)
	if add.Bill.Type != domain.BillOneTime || add.Bill.AllowableLateDays != 2 || add.Bill.ID == "" {
		t.Errorf("Unexpected bill: %+v", add.Bill)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 8 {
		t.Fatalf("Expected 8 transforms, got %d: %v", len(names), names)
	}
	if names[0] != "add_bill" {
		t.Errorf("Expected sorted list, got %v", names)
	}
}
