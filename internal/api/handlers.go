package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/billplan/internal/config"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/shopspring/decimal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"status": "ok"})
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, rec, err := s.compute(r.Context(), s.plan)
	if err != nil {
		writeErr(w, s.serverError("failed to compute schedule", err))
		return
	}
	writeOK(w, newScheduleResponse(s.plan.IncomeSources, sched, rec))
}

// handlePostSchedule computes a schedule for the plan in the body, which
// uses the same snake_case keys as a plan file. An empty body uses the
// server's plan. The posted plan is not stored.
func (s *Server) handlePostSchedule(w http.ResponseWriter, r *http.Request) {
	body, e := readBody(r)
	if e != nil {
		writeErr(w, e)
		return
	}

	plan := s.plan
	if len(strings.TrimSpace(string(body))) > 0 {
		parsed, err := config.NewInputParser().Parse(body)
		if err != nil {
			writeErr(w, badRequest("invalid plan", map[string]any{"error": err.Error()}))
			return
		}
		plan = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sched, rec, err := s.compute(r.Context(), plan)
	if err != nil {
		writeErr(w, s.serverError("failed to compute schedule", err))
		return
	}
	writeOK(w, newScheduleResponse(plan.IncomeSources, sched, rec))
}

type moveRequest struct {
	Bill        string `json:"bill"`
	FromPayDate string `json:"fromPayDate"`
	Direction   string `json:"direction"`
}

type moveResponse struct {
	Move      schedule.MoveResult   `json:"move"`
	Paychecks []report.PaycheckLine `json:"paychecks"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if e := readJSON(r, &req); e != nil {
		writeErr(w, e)
		return
	}
	if strings.TrimSpace(req.Bill) == "" {
		writeErr(w, badRequest("bill is required", nil))
		return
	}
	from, e := requireDate(req.FromPayDate, "fromPayDate")
	if e != nil {
		writeErr(w, e)
		return
	}
	dir, err := schedule.ParseDirection(req.Direction)
	if err != nil {
		writeErr(w, badRequest(err.Error(), nil))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sched, rec, err := s.compute(r.Context(), s.plan)
	if err != nil {
		writeErr(w, s.serverError("failed to compute schedule", err))
		return
	}
	res, err := s.mutator.MoveBill(r.Context(), sched, req.Bill, from, dir)
	if err != nil {
		writeErr(w, s.classify("failed to move bill", err))
		return
	}
	writeOK(w, moveResponse{Move: res, Paychecks: report.Paychecks(sched, rec)})
}

type overrideEntry struct {
	InstanceID   string      `json:"instanceId"`
	PaycheckDate domain.Date `json:"paycheckDate"`
}

func (s *Server) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	ov, err := s.store.ListOverrides(r.Context())
	if err != nil {
		writeErr(w, s.serverError("failed to list overrides", err))
		return
	}
	writeOK(w, sortedOverrides(ov))
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instanceID")
	var req struct {
		PaycheckDate string `json:"paycheckDate"`
	}
	if e := readJSON(r, &req); e != nil {
		writeErr(w, e)
		return
	}
	date, e := requireDate(req.PaycheckDate, "paycheckDate")
	if e != nil {
		writeErr(w, e)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sched, _, err := s.compute(r.Context(), s.plan)
	if err != nil {
		writeErr(w, s.serverError("failed to compute schedule", err))
		return
	}
	if _, ok := sched.Instances[id]; !ok {
		writeErr(w, notFound("unknown bill instance "+id))
		return
	}
	if sched.IndexOf(date) < 0 {
		writeErr(w, badRequest("no paycheck on "+date.String(), nil))
		return
	}
	if err := s.store.SaveOverride(r.Context(), id, date); err != nil {
		writeErr(w, s.serverError("failed to save override", err))
		return
	}
	writeOK(w, overrideEntry{InstanceID: id, PaycheckDate: date})
}

func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "instanceID")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteOverride(r.Context(), id); err != nil {
		writeErr(w, s.classify("failed to delete override", err))
		return
	}
	writeOK(w, map[string]any{"deleted": id})
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListSavings(r.Context())
	if err != nil {
		writeErr(w, s.serverError("failed to list savings", err))
		return
	}
	writeOK(w, recs)
}

type savingsRequest struct {
	PaycheckDate string          `json:"paycheckDate"`
	Amount       decimal.Decimal `json:"amount"`
	IsDeposited  bool            `json:"isDeposited"`
}

func (s *Server) handleSaveSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if e := readJSON(r, &req); e != nil {
		writeErr(w, e)
		return
	}
	date, e := requireDate(req.PaycheckDate, "paycheckDate")
	if e != nil {
		writeErr(w, e)
		return
	}
	if req.Amount.IsNegative() {
		writeErr(w, badRequest("amount cannot be negative", nil))
		return
	}

	rec := domain.PaycheckSavings{PaycheckDate: date, Amount: req.Amount, IsDeposited: req.IsDeposited}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveSavings(r.Context(), rec); err != nil {
		writeErr(w, s.serverError("failed to save savings", err))
		return
	}
	writeOK(w, rec)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	ps, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeErr(w, s.serverError("failed to list payments", err))
		return
	}
	writeOK(w, ps)
}

type paymentRequest struct {
	PaycheckDate string `json:"paycheckDate"`
	BillName     string `json:"billName"`
	BillDueDate  string `json:"billDueDate"`
	IsPaid       bool   `json:"isPaid"`
}

func (s *Server) handleSavePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if e := readJSON(r, &req); e != nil {
		writeErr(w, e)
		return
	}
	if strings.TrimSpace(req.BillName) == "" {
		writeErr(w, badRequest("billName is required", nil))
		return
	}
	pay, e := requireDate(req.PaycheckDate, "paycheckDate")
	if e != nil {
		writeErr(w, e)
		return
	}
	due, e := requireDate(req.BillDueDate, "billDueDate")
	if e != nil {
		writeErr(w, e)
		return
	}

	p := domain.BillPayment{PaycheckDate: pay, BillName: req.BillName, BillDueDate: due, IsPaid: req.IsPaid}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SavePayment(r.Context(), p); err != nil {
		writeErr(w, s.serverError("failed to save payment", err))
		return
	}
	writeOK(w, p)
}

func sortedOverrides(ov domain.Overrides) []overrideEntry {
	out := make([]overrideEntry, 0, len(ov))
	for id, date := range ov {
		out = append(out, overrideEntry{InstanceID: id, PaycheckDate: date})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}
