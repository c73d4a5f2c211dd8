package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/billplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single figure with a label and an optional trend.
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
	Alert       bool
}

// Trend is a change direction with its rendered amount.
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 24}
}

// NewMoneyCard creates a card showing a currency amount.
func NewMoneyCard(label string, amount decimal.Decimal) *MetricCard {
	return NewMetricCard(label, tuistyles.FormatCurrency(amount))
}

// NewCountCard creates a card for a count that should draw attention when
// non-zero, such as underfunded or late bills.
func NewCountCard(label string, n int) *MetricCard {
	c := NewMetricCard(label, fmt.Sprintf("%d", n))
	c.Alert = n > 0
	return c
}

// WithDelta adds a currency trend; zero deltas are not shown.
func (m *MetricCard) WithDelta(delta decimal.Decimal) *MetricCard {
	if delta.IsZero() {
		return m
	}
	change := tuistyles.FormatCurrency(delta.Abs())
	if delta.IsPositive() {
		change = "+" + change
	} else {
		change = "-" + change
	}
	m.Trend = &Trend{IsPositive: delta.IsPositive(), Change: change}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card.
func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	if m.Alert {
		valueStyle = tuistyles.UnderfundedStyle
	}
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)

	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
		content += "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	border := tuistyles.ColorBorder
	if m.Alert {
		border = tuistyles.ColorDanger
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns an inline version without border
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
		out += " " + tuistyles.MetricTrendStyle(m.Trend.IsPositive).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}
	return out
}

// MetricGrid lays cards out in rows of columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
