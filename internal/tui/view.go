package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render(m.spinner.Render()))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" + SubtitleStyle.Render("Press any key to continue..."))
	}

	var content string
	switch m.currentScene {
	case SceneSchedule:
		content = m.scheduleModel.View()
	case SceneSummary:
		content = m.summaryModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar.
func (m Model) renderApp(content string) string {
	body := lipgloss.NewStyle().Height(max(1, m.height-4)).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTitleBar(), body, m.renderStatusBar())
}

func (m Model) renderTitleBar() string {
	crumb := m.currentScene.String()
	if m.config != nil {
		crumb += " / " + m.configPath
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("billplan - paycheck planner"),
		SubtitleStyle.Render(crumb),
	)
}

func (m Model) renderStatusBar() string {
	line := shortcuts([]key.Binding{m.keys.Next, m.keys.Reload, m.keys.Help, m.keys.Quit})
	if m.status != "" {
		line = InfoStyle.Render(m.status) + "   " + line
	}
	return StatusBarStyle.Width(m.width).Render(line)
}

// shortcuts renders bindings as "key desc" pairs.
func shortcuts(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, StatusKeyStyle.Render(h.Key)+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderHelp() string {
	var b strings.Builder
	section := func(title string, bindings []key.Binding) {
		b.WriteString(TitleStyle.Render(title))
		b.WriteString("\n")
		for _, kb := range bindings {
			h := kb.Help()
			b.WriteString("  ")
			b.WriteString(HelpKeyStyle.Render(padRight(h.Key, 8)))
			b.WriteString(HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	g := m.keys
	section("Global", []key.Binding{g.Schedule, g.Summary, g.Next, g.Reload, g.Help, g.Back, g.Quit})
	section("Schedule", m.scheduleModel.Keys().Bindings())
	b.WriteString(SubtitleStyle.Render("Moves are saved as overrides and survive a recompute."))
	return BorderStyle.Render(b.String())
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}
