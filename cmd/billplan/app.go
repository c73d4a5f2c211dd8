package main

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/config"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/settings"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	settingsPath string
	dbPath       string
}

// env is what every command needs once flags are parsed.
type env struct {
	settings settings.Settings
	logger   calculation.Logger
	dbPath   string
}

func (o *globalOptions) load(cmd *cobra.Command) (*env, error) {
	s, err := settings.Load(o.settingsPath)
	if err != nil {
		return nil, err
	}
	e := &env{settings: s, logger: calculation.NopLogger{}, dbPath: s.Database.Path}
	if o.dbPath != "" {
		e.dbPath = o.dbPath
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		e.logger = simpleCLILogger{}
	}
	return e, nil
}

// planPath is the first argument, or the configured default plan.
func (e *env) planPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return e.settings.Plan.Path
}

func (e *env) loadPlan(args []string) (*domain.Configuration, string, error) {
	path := e.planPath(args)
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, path, err
	}
	e.logger.Debugf("loaded plan %s: %d income sources, %d bills", path, len(cfg.IncomeSources), len(cfg.Bills))
	return cfg, path, nil
}

func (e *env) openStore() (store.Store, error) {
	st, err := store.Open(e.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", e.dbPath, err)
	}
	return st, nil
}

func (e *env) engine() *calculation.CalculationEngine {
	ce := calculation.NewCalculationEngine()
	ce.SetLogger(e.logger)
	return ce
}

// compute runs the engine with stored overrides and loads the records
// shown alongside the schedule.
func (e *env) compute(ctx context.Context, cfg *domain.Configuration, st store.Store) (*domain.Schedule, report.Records, error) {
	merged, err := store.WithOverrides(ctx, st, cfg)
	if err != nil {
		return nil, report.Records{}, err
	}
	sched, err := e.engine().ComputeSchedule(calculation.InputsFromConfig(merged))
	if err != nil {
		return nil, report.Records{}, fmt.Errorf("compute schedule: %w", err)
	}
	rec, err := store.LoadRecords(ctx, st)
	if err != nil {
		return nil, report.Records{}, err
	}
	return sched, rec, nil
}
