package calculation

import (
	"fmt"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine turns a plan into a paycheck schedule. It holds no
// schedule state; every call recomputes from its inputs.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil installs a NopLogger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Inputs is everything a schedule depends on.
type Inputs struct {
	IncomeSources  []domain.IncomeSource
	Bills          []domain.Bill
	OneTimeBills   []domain.OneTimeBill
	SavingsPercent decimal.Decimal
	MonthsToShow   int
	Overrides      domain.Overrides
}

// InputsFromConfig collects engine inputs from a loaded plan.
func InputsFromConfig(cfg *domain.Configuration) Inputs {
	return Inputs{
		IncomeSources:  cfg.IncomeSources,
		Bills:          cfg.Bills,
		OneTimeBills:   cfg.OneTimeBills,
		SavingsPercent: cfg.SavingsPercent,
		MonthsToShow:   cfg.Horizon(),
		Overrides:      cfg.Overrides,
	}
}

// ComputeSchedule builds the paycheck timeline, expands bills over it and
// allocates every instance. Buffer paychecks stay in the result, flagged,
// so bills placed on them are never lost; use Schedule.Visible for display.
func (ce *CalculationEngine) ComputeSchedule(in Inputs) (*domain.Schedule, error) {
	if in.SavingsPercent.IsNegative() || in.SavingsPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("savings percent must be between 0 and 100, got %s", in.SavingsPercent)
	}
	months := in.MonthsToShow
	if months <= 0 {
		months = domain.DefaultMonthsToShow
	}

	sources := make([]domain.IncomeSource, len(in.IncomeSources))
	for i, src := range in.IncomeSources {
		src.EnsureID()
		sources[i] = src
	}

	schedule := &domain.Schedule{
		SavingsPercent: in.SavingsPercent,
		MonthsToShow:   months,
		Instances:      make(map[string]domain.BillInstance),
	}

	slots := ExtendTimeline(MergeTimeline(sources, months), BufferSlots)
	if len(slots) == 0 {
		schedule.PayPeriodDays = DefaultPayPeriodDays
		schedule.Warnings = append(schedule.Warnings, "no paychecks: every income source needs a last pay date")
		ce.Logger.Warnf("no paychecks generated from %d income sources", len(sources))
		return schedule, nil
	}
	schedule.PayPeriodDays = PayPeriodLength(slots)

	allocations := make([]domain.Allocation, len(slots))
	for i, slot := range slots {
		allocations[i] = domain.Allocation{
			PayDate:        slot.Date,
			SourceID:       slot.SourceID,
			SourceName:     slot.SourceName,
			GrossAmount:    slot.GrossAmount,
			PaycheckAmount: slot.NetAmount(in.SavingsPercent),
			UsedFunds:      decimal.Zero,
			IsBuffer:       slot.IsBuffer,
		}
	}

	horizonEnd := slots[len(slots)-1].Date
	instances, dropped := ExpandBills(in.Bills, horizonEnd)
	for _, name := range dropped {
		msg := fmt.Sprintf("bill %q is first due after %s and has no instances in this horizon", name, horizonEnd)
		schedule.Warnings = append(schedule.Warnings, msg)
		ce.Logger.Warnf("%s", msg)
	}
	for _, inst := range instances {
		schedule.Instances[inst.InstanceID] = inst
	}

	ce.Logger.Infof("allocating %d bill instances across %d paychecks (period %d days)", len(instances), len(allocations), schedule.PayPeriodDays)
	ce.Allocate(instances, allocations, in.Overrides)

	for _, otb := range in.OneTimeBills {
		idx := indexOfPayDate(allocations, otb.PaycheckDate)
		if idx < 0 {
			schedule.Warnings = append(schedule.Warnings,
				fmt.Sprintf("one-time bill %q is pinned to %s which is not a pay date", otb.Name, otb.PaycheckDate))
			continue
		}
		allocations[idx].OneTimeBills = append(allocations[idx].OneTimeBills, otb)
	}

	schedule.Allocations = allocations
	return schedule, nil
}
