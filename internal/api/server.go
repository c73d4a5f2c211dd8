// Package api serves schedules, overrides and paycheck records as JSON.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/store"
)

// Server computes schedules for one plan and persists edits to a store.
// Every request recomputes from the plan plus stored overrides; mu
// serializes edits so a move always sees the previous one.
type Server struct {
	mu      sync.Mutex
	plan    *domain.Configuration
	store   store.Store
	engine  *calculation.CalculationEngine
	mutator *schedule.Mutator
	logger  calculation.Logger
}

// NewServer creates a server for plan backed by st.
func NewServer(plan *domain.Configuration, st store.Store) *Server {
	return &Server{
		plan:    plan,
		store:   st,
		engine:  calculation.NewCalculationEngine(),
		mutator: schedule.NewMutator(st),
		logger:  calculation.NopLogger{},
	}
}

// SetLogger sets the logger for requests, the engine and the mutator.
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.logger = l
	s.engine.SetLogger(l)
	s.mutator.SetLogger(l)
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)

	r.Get("/api/health", s.handleHealth)
	r.Route("/api/schedule", func(r chi.Router) {
		r.Get("/", s.handleGetSchedule)
		r.Post("/", s.handlePostSchedule)
		r.Post("/move", s.handleMove)
	})
	r.Route("/api/overrides", func(r chi.Router) {
		r.Get("/", s.handleListOverrides)
		r.Put("/{instanceID}", s.handleSetOverride)
		r.Delete("/{instanceID}", s.handleDeleteOverride)
	})
	r.Get("/api/savings", s.handleListSavings)
	r.Put("/api/savings", s.handleSaveSavings)
	r.Get("/api/payments", s.handleListPayments)
	r.Put("/api/payments", s.handleSavePayment)
	return r
}

// Run listens on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Infof("listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	}
}

type scheduleResponse struct {
	Schedule  *domain.Schedule      `json:"schedule"`
	Paychecks []report.PaycheckLine `json:"paychecks"`
	Summary   report.Summary        `json:"summary"`
}

// compute runs the engine over plan with stored overrides layered on top
// of the plan's own.
func (s *Server) compute(ctx context.Context, plan *domain.Configuration) (*domain.Schedule, report.Records, error) {
	cfg, err := store.WithOverrides(ctx, s.store, plan)
	if err != nil {
		return nil, report.Records{}, err
	}
	sched, err := s.engine.ComputeSchedule(calculation.InputsFromConfig(cfg))
	if err != nil {
		return nil, report.Records{}, err
	}
	rec, err := store.LoadRecords(ctx, s.store)
	if err != nil {
		return nil, report.Records{}, err
	}
	return sched, rec, nil
}

func newScheduleResponse(sources []domain.IncomeSource, sched *domain.Schedule, rec report.Records) scheduleResponse {
	return scheduleResponse{
		Schedule:  sched,
		Paychecks: report.Paychecks(sched, rec),
		Summary:   report.Summarize(sources, sched, rec),
	}
}
