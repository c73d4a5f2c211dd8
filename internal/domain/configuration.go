package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultMonthsToShow is used when a plan does not set a horizon.
const DefaultMonthsToShow = 2

// Configuration is a complete budget plan as loaded from a plan file.
type Configuration struct {
	SavingsPercent decimal.Decimal `yaml:"savings_percent" json:"savings_percent"`
	MonthsToShow   int             `yaml:"months_to_show" json:"months_to_show"`
	IncomeSources  []IncomeSource  `yaml:"income_sources" json:"income_sources"`
	Bills          []Bill          `yaml:"bills" json:"bills"`
	OneTimeBills   []OneTimeBill   `yaml:"one_time_bills,omitempty" json:"one_time_bills,omitempty"`
	Overrides      Overrides       `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Horizon returns MonthsToShow or the default.
func (c *Configuration) Horizon() int {
	if c.MonthsToShow <= 0 {
		return DefaultMonthsToShow
	}
	return c.MonthsToShow
}

// FindBill returns the bill with the given name.
func (c *Configuration) FindBill(name string) (*Bill, bool) {
	for i := range c.Bills {
		if c.Bills[i].Name == name {
			return &c.Bills[i], true
		}
	}
	return nil, false
}

// BillNames lists bill names in plan order.
func (c *Configuration) BillNames() []string {
	names := make([]string, 0, len(c.Bills))
	for _, b := range c.Bills {
		names = append(names, b.Name)
	}
	return names
}

// DeepCopy returns a copy that shares no slices, maps or pointers with c.
func (c *Configuration) DeepCopy() *Configuration {
	if c == nil {
		return nil
	}
	out := *c
	out.IncomeSources = make([]IncomeSource, len(c.IncomeSources))
	for i, src := range c.IncomeSources {
		if src.LastPayDate != nil {
			d := *src.LastPayDate
			src.LastPayDate = &d
		}
		out.IncomeSources[i] = src
	}
	out.Bills = append([]Bill(nil), c.Bills...)
	out.OneTimeBills = make([]OneTimeBill, len(c.OneTimeBills))
	for i, b := range c.OneTimeBills {
		if b.DueDate != nil {
			d := *b.DueDate
			b.DueDate = &d
		}
		out.OneTimeBills[i] = b
	}
	if c.Overrides != nil {
		out.Overrides = make(Overrides, len(c.Overrides))
		for k, v := range c.Overrides {
			out.Overrides[k] = v
		}
	}
	return &out
}
