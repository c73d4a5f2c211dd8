package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scheduleModel.SetSize(msg.Width, msg.Height-4)
		m.summaryModel.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.spinner.Message = "Computing schedule..."
		return m, computeScheduleCmd(m.engine, m.store, m.config)

	case ScheduleComputedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.schedule = msg.Schedule
		m.records = msg.Records
		m.refreshScenes()
		if n := len(msg.Schedule.Warnings); n > 0 {
			m.status = fmt.Sprintf("%d warning(s): %s", n, msg.Schedule.Warnings[0])
		}
		return m, nil

	case tuimsg.MoveBillMsg:
		return m.moveBill(msg)

	case tuimsg.OverrideSavedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("move shown but not saved: %v", msg.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("saved %s on %s", msg.Move.BillName, msg.Move.To)
		return m, nil

	case tuimsg.StatusMsg:
		m.status = msg.Text
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// moveBill applies the move to the in-memory schedule, then saves the
// override in the background.
func (m Model) moveBill(msg tuimsg.MoveBillMsg) (tea.Model, tea.Cmd) {
	if m.schedule == nil {
		return m, nil
	}
	res, err := m.mutator.MoveBill(context.Background(), m.schedule, msg.InstanceID, msg.FromPayDate, msg.Direction)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if !res.Moved {
		m.status = fmt.Sprintf("%s is already on the %s paycheck", res.BillName, edgeName(msg))
		return m, nil
	}

	m.refreshScenes()
	m.scheduleModel.Follow(res.To, res.InstanceID)
	m.status = fmt.Sprintf("moved %s to %s", res.BillName, res.To)
	return m, saveOverrideCmd(m.store, res)
}

func edgeName(msg tuimsg.MoveBillMsg) string {
	if msg.Direction == schedule.Up {
		return "first"
	}
	return "last"
}

func (m *Model) refreshScenes() {
	m.scheduleModel.SetSchedule(m.schedule, m.records)
	m.summaryModel.SetSummary(report.Summarize(m.config.IncomeSources, m.schedule, m.records), report.Paychecks(m.schedule, m.records))
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil && !key.Matches(msg, m.keys.Quit) {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)
	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneHelp {
			return m, navigate(m.previousScene)
		}
		return m, nil
	case key.Matches(msg, m.keys.Schedule):
		return m, navigate(SceneSchedule)
	case key.Matches(msg, m.keys.Summary):
		return m, navigate(SceneSummary)
	case key.Matches(msg, m.keys.Next):
		if m.currentScene == SceneSchedule {
			return m, navigate(SceneSummary)
		}
		return m, navigate(SceneSchedule)
	case key.Matches(msg, m.keys.Reload):
		if m.config == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, computeScheduleCmd(m.engine, m.store, m.config)
	}

	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneSchedule:
		m.scheduleModel, cmd = m.scheduleModel.Update(msg)
	case SceneSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	}
	return m, cmd
}
