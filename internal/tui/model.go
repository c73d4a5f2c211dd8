// Package tui is an interactive schedule browser: it shows where each bill
// lands, lets the user move bills between paychecks and saves each move as
// an override.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/config"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/rgehrsitz/billplan/internal/tui/components"
	"github.com/rgehrsitz/billplan/internal/tui/scenes"
	"github.com/rgehrsitz/billplan/internal/tui/tuimsg"
)

// GlobalKeys are available from every scene.
type GlobalKeys struct {
	Schedule key.Binding
	Summary  key.Binding
	Next     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultGlobalKeys() GlobalKeys {
	return GlobalKeys{
		Schedule: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "schedule")),
		Summary:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "summary")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	configPath string
	config     *domain.Configuration
	store      store.Store

	engine  *calculation.CalculationEngine
	mutator *schedule.Mutator

	schedule *domain.Schedule
	records  report.Records

	scheduleModel *scenes.ScheduleModel
	summaryModel  *scenes.SummaryModel
	keys          GlobalKeys

	status  string
	err     error
	loading bool
	spinner *components.Spinner
}

// NewModel creates a model that loads the plan at configPath and persists
// moves to st.
func NewModel(configPath string, st store.Store) Model {
	return Model{
		currentScene:  SceneSchedule,
		configPath:    configPath,
		store:         st,
		engine:        calculation.NewCalculationEngine(),
		mutator:       schedule.NewMutator(nil),
		scheduleModel: scenes.NewScheduleModel(),
		summaryModel:  scenes.NewSummaryModel(),
		keys:          defaultGlobalKeys(),
		loading:       true,
		spinner:       components.NewSpinner("Loading plan..."),
		width:         100,
		height:        30,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// computeScheduleCmd runs the engine with stored overrides applied. The
// mutator edits this schedule in memory afterwards, so it is only
// recomputed on load and on an explicit reload.
func computeScheduleCmd(engine *calculation.CalculationEngine, st store.Store, cfg *domain.Configuration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		merged, err := store.WithOverrides(ctx, st, cfg)
		if err != nil {
			return ScheduleComputedMsg{Err: err}
		}
		sched, err := engine.ComputeSchedule(calculation.InputsFromConfig(merged))
		if err != nil {
			return ScheduleComputedMsg{Err: err}
		}
		rec, err := store.LoadRecords(ctx, st)
		if err != nil {
			return ScheduleComputedMsg{Err: err}
		}
		return ScheduleComputedMsg{Schedule: sched, Records: rec}
	}
}

// saveOverrideCmd persists a move in the background; the on-screen move has
// already happened.
func saveOverrideCmd(st store.OverrideStore, res schedule.MoveResult) tea.Cmd {
	return func() tea.Msg {
		err := st.SaveOverride(context.Background(), res.InstanceID, res.To)
		return tuimsg.OverrideSavedMsg{Move: res, Err: err}
	}
}
