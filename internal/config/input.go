package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates plan bytes. Unknown keys are rejected so a
// misspelled field cannot silently fall back to a zero value.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.Normalize(&config)
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// SaveToFile writes a plan as YAML.
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// Normalize canonicalizes enum spellings and fills derived identifiers.
// Values it cannot canonicalize are left for validation to reject.
func (ip *InputParser) Normalize(config *domain.Configuration) {
	for i := range config.IncomeSources {
		src := &config.IncomeSources[i]
		if f, err := domain.ParseFrequency(string(src.Frequency)); err == nil {
			src.Frequency = f
		}
		src.EnsureID()
	}
	for i := range config.Bills {
		b := &config.Bills[i]
		if b.Type == "" {
			b.Type = domain.BillRecurring
		} else if t, err := domain.ParseBillType(string(b.Type)); err == nil {
			b.Type = t
		}
		if b.ID == "" {
			b.ID = domain.StableID("bill", b.Name)
		}
	}
	for i := range config.OneTimeBills {
		b := &config.OneTimeBills[i]
		if b.ID == "" {
			b.ID = domain.StableID("one-time", b.Name+"@"+b.PaycheckDate.String())
		}
	}
}

// ValidateConfiguration validates the loaded plan
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.SavingsPercent.IsNegative() || config.SavingsPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("savings percent must be between 0 and 100, got %s", config.SavingsPercent)
	}
	if config.MonthsToShow < 0 || config.MonthsToShow > 36 {
		return fmt.Errorf("months to show must be between 1 and 36 (0 uses the default), got %d", config.MonthsToShow)
	}
	if len(config.IncomeSources) == 0 {
		return fmt.Errorf("at least one income source is required")
	}

	seen := make(map[string]bool)
	for i := range config.IncomeSources {
		src := &config.IncomeSources[i]
		if err := ip.validateIncomeSource(src); err != nil {
			return fmt.Errorf("income source %d (%s) validation failed: %w", i, src.Name, err)
		}
		if seen[src.ID] {
			return fmt.Errorf("income source %d (%s): duplicate id %s", i, src.Name, src.ID)
		}
		seen[src.ID] = true
	}

	names := make(map[string]bool)
	for i := range config.Bills {
		b := &config.Bills[i]
		if err := ip.validateBill(b); err != nil {
			return fmt.Errorf("bill %d (%s) validation failed: %w", i, b.Name, err)
		}
		if names[b.Name] {
			return fmt.Errorf("bill %d: duplicate bill name %q", i, b.Name)
		}
		names[b.Name] = true
	}

	for i := range config.OneTimeBills {
		if err := ip.validateOneTimeBill(&config.OneTimeBills[i]); err != nil {
			return fmt.Errorf("one-time bill %d (%s) validation failed: %w", i, config.OneTimeBills[i].Name, err)
		}
	}

	for id, date := range config.Overrides {
		if id == "" {
			return fmt.Errorf("override with empty instance id")
		}
		if date.IsZero() {
			return fmt.Errorf("override %s has no paycheck date", id)
		}
	}
	return nil
}

func (ip *InputParser) validateIncomeSource(src *domain.IncomeSource) error {
	if src.Name == "" {
		return fmt.Errorf("name is required")
	}
	if src.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	if !src.Frequency.Valid() {
		return fmt.Errorf("unknown frequency %q (weekly, biweekly, twicemonthly, monthly)", src.Frequency)
	}
	if err := validatePayDay("first pay day", src.FirstPayDay); err != nil {
		return err
	}
	if err := validatePayDay("second pay day", src.SecondPayDay); err != nil {
		return err
	}
	if src.Frequency == domain.FrequencyTwiceMonthly {
		first, second := src.PayDays()
		if first == second {
			return fmt.Errorf("twice-monthly pay days must differ, both are %d", first)
		}
	}
	return nil
}

func validatePayDay(label string, day int) error {
	if day < 0 || day > 31 {
		return fmt.Errorf("%s must be between 1 and 31, got %d", label, day)
	}
	return nil
}

func (ip *InputParser) validateBill(b *domain.Bill) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.PaymentAmount.IsNegative() {
		return fmt.Errorf("payment amount cannot be negative")
	}
	if b.APR.IsNegative() {
		return fmt.Errorf("APR cannot be negative")
	}
	if b.RemainingBalance.IsNegative() {
		return fmt.Errorf("remaining balance cannot be negative")
	}
	if b.DueDate.IsZero() {
		return fmt.Errorf("due date is required")
	}
	if b.AllowableLateDays < 0 {
		return fmt.Errorf("allowable late days cannot be negative")
	}
	switch b.Type {
	case domain.BillRecurring, domain.BillOneTime, domain.BillOther:
	default:
		return fmt.Errorf("unknown bill type %q (recurring, one-time, other)", b.Type)
	}
	return nil
}

func (ip *InputParser) validateOneTimeBill(b *domain.OneTimeBill) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if b.PaycheckDate.IsZero() {
		return fmt.Errorf("paycheck date is required")
	}
	return nil
}
