package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgehrsitz/billplan/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Date is a calendar date without time of day. It travels as "YYYY-MM-DD"
// in YAML, JSON, text and the database.
type Date struct {
	time.Time
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return Date{dateutil.Day(t)}
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := dateutil.ParseISO(s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return dateutil.FormatISO(d.Time)
}

// DaysUntil returns the signed day count from d to other.
func (d Date) DaysUntil(other Date) int {
	return dateutil.DaysBetween(d.Time, other.Time)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddMonths returns d shifted by n months, clamped to the target month's last day.
func (d Date) AddMonths(n int) Date {
	return Date{dateutil.AddMonthsClamped(d.Time, n)}
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	if err := d.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	return nil
}
