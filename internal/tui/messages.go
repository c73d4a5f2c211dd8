package tui

import (
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneSchedule Scene = iota
	SceneSummary
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneSchedule:
		return "Schedule"
	case SceneSummary:
		return "Summary"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals the plan file has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ScheduleComputedMsg carries a freshly computed schedule and the stored
// records to render it with.
type ScheduleComputedMsg struct {
	Schedule *domain.Schedule
	Records  report.Records
	Err      error
}
