package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PlanTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_savings", createSetSavingsPercent)
	registry.Register("set_horizon", createSetHorizon)
	registry.Register("scale_income", createScaleIncome)
	registry.Register("change_frequency", createChangeFrequency)

	registry.Register("add_bill", createAddBill)
	registry.Register("remove_bill", createRemoveBill)
	registry.Register("delay_bill", createDelayBill)
	registry.Register("set_bill_amount", createSetBillAmount)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PlanTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "delay_bill:bill=Rent,days=3"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PlanTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func createSetSavingsPercent(params map[string]string) (PlanTransform, error) {
	pctStr, ok := params["percent"]
	if !ok {
		return nil, fmt.Errorf("set_savings requires 'percent' parameter")
	}

	pct, err := decimal.NewFromString(pctStr)
	if err != nil {
		return nil, fmt.Errorf("invalid percent value: %w", err)
	}

	return &SetSavingsPercent{Percent: pct}, nil
}

func createSetHorizon(params map[string]string) (PlanTransform, error) {
	monthsStr, ok := params["months"]
	if !ok {
		return nil, fmt.Errorf("set_horizon requires 'months' parameter")
	}

	months, err := strconv.Atoi(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}

	return &SetHorizon{Months: months}, nil
}

func createScaleIncome(params map[string]string) (PlanTransform, error) {
	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale_income requires 'factor' parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value: %w", err)
	}

	return &ScaleIncome{Source: params["source"], Factor: factor}, nil
}

func createChangeFrequency(params map[string]string) (PlanTransform, error) {
	source, ok := params["source"]
	if !ok {
		return nil, fmt.Errorf("change_frequency requires 'source' parameter")
	}

	freqStr, ok := params["frequency"]
	if !ok {
		return nil, fmt.Errorf("change_frequency requires 'frequency' parameter")
	}

	freq, err := domain.ParseFrequency(freqStr)
	if err != nil {
		return nil, fmt.Errorf("invalid frequency value: %w", err)
	}

	return &ChangeFrequency{Source: source, Frequency: freq}, nil
}

func createAddBill(params map[string]string) (PlanTransform, error) {
	name, ok := params["name"]
	if !ok {
		return nil, fmt.Errorf("add_bill requires 'name' parameter")
	}

	amountStr, ok := params["amount"]
	if !ok {
		return nil, fmt.Errorf("add_bill requires 'amount' parameter")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount value: %w", err)
	}

	dueStr, ok := params["due"]
	if !ok {
		return nil, fmt.Errorf("add_bill requires 'due' parameter")
	}
	due, err := domain.ParseDate(dueStr)
	if err != nil {
		return nil, fmt.Errorf("invalid due date, expected YYYY-MM-DD: %w", err)
	}

	bill := domain.Bill{Name: name, PaymentAmount: amount, DueDate: due, Type: domain.BillRecurring}
	if typeStr, ok := params["type"]; ok {
		bill.Type, err = domain.ParseBillType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid type value: %w", err)
		}
	}
	if lateStr, ok := params["late_days"]; ok {
		bill.AllowableLateDays, err = strconv.Atoi(lateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid late_days value: %w", err)
		}
	}
	bill.ID = domain.StableID("bill", name)

	return &AddBill{Bill: bill}, nil
}

func createRemoveBill(params map[string]string) (PlanTransform, error) {
	bill, ok := params["bill"]
	if !ok {
		return nil, fmt.Errorf("remove_bill requires 'bill' parameter")
	}

	return &RemoveBill{Bill: bill}, nil
}

func createDelayBill(params map[string]string) (PlanTransform, error) {
	bill, ok := params["bill"]
	if !ok {
		return nil, fmt.Errorf("delay_bill requires 'bill' parameter")
	}

	daysStr, ok := params["days"]
	if !ok {
		return nil, fmt.Errorf("delay_bill requires 'days' parameter")
	}

	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return nil, fmt.Errorf("invalid days value: %w", err)
	}

	return &DelayBill{Bill: bill, Days: days}, nil
}

func createSetBillAmount(params map[string]string) (PlanTransform, error) {
	bill, ok := params["bill"]
	if !ok {
		return nil, fmt.Errorf("set_bill_amount requires 'bill' parameter")
	}

	amountStr, ok := params["amount"]
	if !ok {
		return nil, fmt.Errorf("set_bill_amount requires 'amount' parameter")
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount value: %w", err)
	}

	return &SetBillAmount{Bill: bill, Amount: amount}, nil
}
