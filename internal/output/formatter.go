package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formatter renders a schedule report in one output format.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{},
	"csv":     CSVFormatter{},
	"ics":     ICSFormatter{},
	"html":    HTMLFormatter{},
}

var formatAliases = map[string]string{
	"text":     "console",
	"table":    "console",
	"ical":     "ics",
	"calendar": "ics",
}

// Extension returns the file extension for a formatter name.
func Extension(name string) string {
	if name == "console" {
		return "txt"
	}
	return name
}

// GetFormatterByName resolves a formatter or alias; nil when unknown.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases, sorted.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(formatAliases))
	for n := range formatAliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders r and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", fmt.Errorf("format %s: %w", f.Name(), err)
	}
	filename := fmt.Sprintf("billplan_schedule_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatCurrency formats a decimal as dollars.
func FormatCurrency(amount decimal.Decimal) string {
	return FormatCurrencyWith("$", amount)
}

// FormatCurrencyWith formats a decimal with the given symbol; negatives
// put the sign before the symbol.
func FormatCurrencyWith(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
