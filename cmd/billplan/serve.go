package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/billplan/internal/api"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/rgehrsitz/billplan/internal/tui"
	"github.com/spf13/cobra"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [plan-file]",
		Short: "Serve the schedule and its overrides over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, path, err := e.loadPlan(args)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = e.settings.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(cfg, st)
			srv.SetLogger(simpleCLILogger{})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", path, addr)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from settings)")
	return cmd
}

func tuiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [plan-file]",
		Short: "Browse the schedule and move bills interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			path := e.planPath(args)
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("plan file not found: %s", path)
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return runTUI(cmd.Context(), path, st)
		},
	}
}

func runTUI(ctx context.Context, path string, st store.Store) error {
	p := tea.NewProgram(tui.NewModel(path, st), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
