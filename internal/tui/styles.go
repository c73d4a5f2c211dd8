package tui

import "github.com/rgehrsitz/billplan/internal/tui/tuistyles"

// Re-exported so the root model reads like the scenes.
var (
	TitleStyle        = tuistyles.TitleStyle
	SubtitleStyle     = tuistyles.SubtitleStyle
	StatusBarStyle    = tuistyles.StatusBarStyle
	StatusKeyStyle    = tuistyles.StatusKeyStyle
	BorderStyle       = tuistyles.BorderStyle
	ErrorStyle        = tuistyles.ErrorStyle
	InfoStyle         = tuistyles.InfoStyle
	HelpKeyStyle      = tuistyles.HelpKeyStyle
	HelpDescStyle     = tuistyles.HelpDescStyle
	SelectedItemStyle = tuistyles.SelectedItemStyle
)
