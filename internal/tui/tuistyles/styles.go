// Package tuistyles holds the colors and lipgloss styles shared by the TUI
// root model, its scenes and components.
package tuistyles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary   = lipgloss.Color("#3AA99F")
	ColorSecondary = lipgloss.Color("#4385BE")
	ColorAccent    = lipgloss.Color("#D0A215")
	ColorSuccess   = lipgloss.Color("#879A39")
	ColorWarning   = lipgloss.Color("#DA702C")
	ColorDanger    = lipgloss.Color("#D14D41")

	ColorForeground = lipgloss.Color("#FFFCF0")
	ColorMuted      = lipgloss.Color("#878580")
	ColorBorder     = lipgloss.Color("#403E3C")
)

var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorBorder)

	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.BorderForeground(ColorPrimary)

	SelectedItemStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground).Background(lipgloss.Color("#282726"))
	UnselectedItemStyle = lipgloss.NewStyle().Foreground(ColorForeground)

	MetricLabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)
	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	LateStyle        = lipgloss.NewStyle().Foreground(ColorWarning)
	UnderfundedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	BufferStyle      = lipgloss.NewStyle().Faint(true)

	HelpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	InfoStyle  = lipgloss.NewStyle().Foreground(ColorSecondary)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)

// MetricTrendStyle colors a change by direction.
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for a change direction.
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// FormatCurrency renders an amount as $1,234.56.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	s := amount.StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return fmt.Sprintf("%s$%s%s", sign, out, frac)
}
