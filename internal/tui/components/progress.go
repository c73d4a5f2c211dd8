package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/billplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UsageBar shows how much of a total has been consumed, such as a
// paycheck's used funds or deposited savings against the target.
type UsageBar struct {
	Used        decimal.Decimal
	Total       decimal.Decimal
	Width       int
	Label       string
	ShowPercent bool
	// Inverted colors the bar green when full, for goals like savings.
	Inverted bool
}

// NewUsageBar creates a usage bar for used out of total.
func NewUsageBar(used, total decimal.Decimal) *UsageBar {
	return &UsageBar{Used: used, Total: total, Width: 30, ShowPercent: true}
}

// WithLabel sets the bar label
func (p *UsageBar) WithLabel(label string) *UsageBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *UsageBar) WithWidth(width int) *UsageBar {
	p.Width = width
	return p
}

// AsGoal makes a full bar read as success.
func (p *UsageBar) AsGoal() *UsageBar {
	p.Inverted = true
	return p
}

// Percentage is used/total*100, 0 for an empty total.
func (p *UsageBar) Percentage() decimal.Decimal {
	if !p.Total.IsPositive() {
		return decimal.Zero
	}
	return p.Used.Div(p.Total).Mul(hundred)
}

func (p *UsageBar) filled() int {
	pct := p.Percentage()
	n := int(pct.Mul(decimal.NewFromInt(int64(p.Width))).Div(hundred).IntPart())
	switch {
	case n < 0:
		return 0
	case n > p.Width:
		return p.Width
	}
	return n
}

func (p *UsageBar) color() lipgloss.Color {
	pct := p.Percentage()
	if p.Inverted {
		if pct.GreaterThanOrEqual(hundred) {
			return tuistyles.ColorSuccess
		}
		return tuistyles.ColorAccent
	}
	switch {
	case pct.GreaterThan(hundred):
		return tuistyles.ColorDanger
	case pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return tuistyles.ColorWarning
	}
	return tuistyles.ColorSuccess
}

// Render returns the styled bar
func (p *UsageBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(tuistyles.MetricLabelStyle.Render(p.Label))
		content.WriteString(" ")
	}

	filled := p.filled()
	barStyle := lipgloss.NewStyle().Foreground(p.color())
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	content.WriteString("[")
	content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	content.WriteString(emptyStyle.Render(strings.Repeat("░", p.Width-filled)))
	content.WriteString("]")

	if p.ShowPercent {
		content.WriteString(" ")
		content.WriteString(barStyle.Render(fmt.Sprintf("%s%%", p.Percentage().StringFixed(0))))
	}
	return content.String()
}

// Spinner is a frame-stepped loading indicator.
type Spinner struct {
	Frame   int
	Message string
}

// NewSpinner creates a new spinner
func NewSpinner(message string) *Spinner {
	return &Spinner{Message: message}
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.Frame++
}

// Render returns the current spinner frame
func (s *Spinner) Render() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	rendered := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(frames[s.Frame%len(frames)])
	if s.Message != "" {
		rendered += " " + s.Message
	}
	return rendered
}
