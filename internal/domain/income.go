package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is how often an income source pays.
type Frequency string

const (
	FrequencyWeekly       Frequency = "weekly"
	FrequencyBiweekly     Frequency = "biweekly"
	FrequencyTwiceMonthly Frequency = "twicemonthly"
	FrequencyMonthly      Frequency = "monthly"
)

// Default day anchors for twice-monthly pay.
const (
	DefaultFirstPayDay  = 1
	DefaultSecondPayDay = 15
)

// ParseFrequency normalizes user input such as "Bi-Weekly" or "twice_monthly".
func ParseFrequency(s string) (Frequency, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch Frequency(norm) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyTwiceMonthly, FrequencyMonthly:
		return Frequency(norm), nil
	case "semimonthly":
		return FrequencyTwiceMonthly, nil
	}
	return "", fmt.Errorf("unknown pay frequency %q", s)
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyTwiceMonthly, FrequencyMonthly:
		return true
	}
	return false
}

// IncomeSource is one stream of paychecks.
type IncomeSource struct {
	ID           string          `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string          `yaml:"name" json:"name"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
	Frequency    Frequency       `yaml:"frequency" json:"frequency"`
	LastPayDate  *Date           `yaml:"last_pay_date,omitempty" json:"last_pay_date,omitempty"`
	FirstPayDay  int             `yaml:"first_pay_day,omitempty" json:"first_pay_day,omitempty"`
	SecondPayDay int             `yaml:"second_pay_day,omitempty" json:"second_pay_day,omitempty"`
}

// PayDays returns the twice-monthly day anchors, defaulting to the 1st and 15th.
func (s IncomeSource) PayDays() (int, int) {
	first, second := s.FirstPayDay, s.SecondPayDay
	if first == 0 {
		first = DefaultFirstPayDay
	}
	if second == 0 {
		second = DefaultSecondPayDay
	}
	return first, second
}

// EnsureID fills ID with a name-derived stable identifier when it is empty.
func (s *IncomeSource) EnsureID() {
	if s.ID == "" {
		s.ID = StableID("income", s.Name)
	}
}

// StableID derives a deterministic UUID from a kind and a key so the same
// input always produces the same identifier across runs.
func StableID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+key)).String()
}
