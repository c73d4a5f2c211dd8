package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	last := domain.MustParseDate("2024-01-05")
	cfg := &domain.Configuration{
		SavingsPercent: decimal.NewFromInt(10),
		MonthsToShow:   1,
		IncomeSources: []domain.IncomeSource{
			{ID: "job", Name: "Main Job", Amount: decimal.NewFromInt(1000), Frequency: domain.FrequencyBiweekly, LastPayDate: &last},
		},
		Bills: []domain.Bill{
			{Name: "Rent", PaymentAmount: decimal.NewFromInt(700), DueDate: domain.MustParseDate("2024-01-05"), Type: domain.BillOneTime},
			{Name: "Card, Visa", PaymentAmount: decimal.NewFromInt(400), DueDate: domain.MustParseDate("2024-01-05"), Type: domain.BillOneTime},
			{Name: "Phone", PaymentAmount: decimal.NewFromInt(50), DueDate: domain.MustParseDate("2024-01-19"), Type: domain.BillOneTime},
		},
	}
	s, err := calculation.NewCalculationEngine().ComputeSchedule(calculation.InputsFromConfig(cfg))
	require.NoError(t, err)
	rec := report.Records{Payments: []domain.BillPayment{
		{PaycheckDate: domain.MustParseDate("2024-01-19"), BillName: "Phone", BillDueDate: domain.MustParseDate("2024-01-19"), IsPaid: true},
	}}
	return NewReport(cfg, s, rec)
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var received *Report

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			called = true
			received = r
			return []byte("test output"), nil
		},
	}

	r := buildTestReport(t)
	output, err := formatter.Format(r)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Same(t, r, received, "Should pass the report")
	assert.Equal(t, []byte("test output"), output, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	t.Chdir(t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F:  func(*Report) ([]byte, error) { return []byte("test output content"), nil },
	}

	filename, err := WriteFormatted(formatter, buildTestReport(t), "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "billplan_schedule_"), "Should have correct prefix")
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F:  func(*Report) ([]byte, error) { return nil, fmt.Errorf("formatter error") },
	}

	filename, err := WriteFormatted(formatter, buildTestReport(t), "txt")

	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error", "Should propagate formatter error")
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PAYCHECK BILL SCHEDULE")
	assert.Contains(t, content, "PAY PERIOD 1")
	assert.Contains(t, content, "PAY PERIOD 2")
	assert.NotContains(t, content, "PAY PERIOD 3", "buffer paychecks are not shown")
	assert.Contains(t, content, "Rent")
	assert.Contains(t, content, "UNDERFUNDED")
	assert.Contains(t, content, "[x]", "paid bill is marked")
	assert.Contains(t, content, "$900.00")
}

func TestConsoleFormatter_NoPaychecks(t *testing.T) {
	r := &Report{Title: "Empty", Schedule: &domain.Schedule{Warnings: []string{"no paychecks"}}}
	out, err := ConsoleFormatter{}.Format(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No paychecks in range")
	assert.Contains(t, string(out), "warning: no paychecks")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var parsed struct {
		SavingsPercent string `json:"savingsPercent"`
		Paychecks      []struct {
			PayDate        string `json:"payDate"`
			PaycheckAmount string `json:"paycheckAmount"`
			Bills          []struct {
				InstanceID string `json:"instanceId"`
				DueDate    string `json:"dueDate"`
			} `json:"bills"`
		} `json:"paychecks"`
	}
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, "10", parsed.SavingsPercent)
	require.Len(t, parsed.Paychecks, 2)
	assert.Equal(t, "2024-01-05", parsed.Paychecks[0].PayDate, "dates are ISO")
	assert.Equal(t, "900", parsed.Paychecks[0].PaycheckAmount)
	require.NotEmpty(t, parsed.Paychecks[0].Bills)
	assert.Equal(t, "Rent-single-2024-01-05", parsed.Paychecks[0].Bills[0].InstanceID)
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per bill")
	assert.Equal(t, "PayDate", rows[0][0])
	assert.Equal(t, "Card, Visa", rows[2][4], "commas are quoted")
	assert.Equal(t, "true", rows[2][11], "underfunded column")
	assert.Equal(t, "true", rows[3][12], "paid column")
}

func TestICSFormatter(t *testing.T) {
	out, err := ICSFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(content, "BEGIN:VEVENT"))
	assert.Contains(t, content, "DTSTART;VALUE=DATE:20240105")
	assert.Contains(t, content, "Rent-single-2024-01-05@2024-01-05.billplan")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>", "Should have HTML structure")
	assert.Contains(t, content, "<title>Paycheck Bill Schedule</title>")
	assert.Contains(t, content, "Pay period 2")
	assert.Contains(t, content, "underfunded")
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "html", "ics", "json"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "ical")
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"JSON", "json"},
		{"calendar", "ics"},
		{"text", "console"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}
	assert.Nil(t, GetFormatterByName("non-existent"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$12.50", FormatCurrency(decimal.RequireFromString("12.5")))
	assert.Equal(t, "-€3.00", FormatCurrencyWith("€", decimal.NewFromInt(-3)))
	assert.Equal(t, "10.00%", FormatPercentage(decimal.NewFromInt(10)))
	assert.Equal(t, "txt", Extension("console"))
}
