package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/billplan/internal/settings"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/rgehrsitz/billplan/internal/tui"
)

func main() {
	s, err := settings.Load("")
	if err != nil {
		fmt.Printf("Error loading settings: %v\n", err)
		os.Exit(1)
	}

	planPath := s.Plan.Path
	if len(os.Args) > 1 {
		planPath = os.Args[1]
	}
	if planPath == "" {
		fmt.Println("Usage: billplan-tui <plan-file>")
		os.Exit(1)
	}
	if _, err := os.Stat(planPath); os.IsNotExist(err) {
		fmt.Printf("Error: plan file not found: %s\n", planPath)
		os.Exit(1)
	}

	st, err := store.Open(s.Database.Path)
	if err != nil {
		fmt.Printf("Error opening database %s: %v\n", s.Database.Path, err)
		os.Exit(1)
	}
	defer st.Close()

	p := tea.NewProgram(tui.NewModel(planPath, st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		st.Close()
		os.Exit(1)
	}
}
