package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/store"
)

const maxBody = 1 << 20

type apiErr struct {
	Status  int
	Message string
	Details any
}

func (e *apiErr) Error() string { return e.Message }

func badRequest(msg string, details any) *apiErr {
	return &apiErr{Status: http.StatusBadRequest, Message: msg, Details: details}
}

func notFound(msg string) *apiErr { return &apiErr{Status: http.StatusNotFound, Message: msg} }

func (s *Server) serverError(msg string, err error) *apiErr {
	s.logger.Errorf("%s: %v", msg, err)
	return &apiErr{Status: http.StatusInternalServerError, Message: msg}
}

// classify maps lookup and validation sentinels to client errors; anything
// else is a 500.
func (s *Server) classify(msg string, err error) *apiErr {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, schedule.ErrAllocationNotFound),
		errors.Is(err, schedule.ErrBillNotFound):
		return notFound(err.Error())
	case errors.Is(err, schedule.ErrInvalidDirection):
		return badRequest(err.Error(), nil)
	}
	return s.serverError(msg, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}

func writeErr(w http.ResponseWriter, err *apiErr) {
	payload := map[string]any{"ok": false, "error": err.Message}
	if err.Details != nil {
		payload["details"] = err.Details
	}
	writeJSON(w, err.Status, payload)
}

func readBody(r *http.Request) ([]byte, *apiErr) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, badRequest("could not read body", nil)
	}
	return b, nil
}

func readJSON(r *http.Request, dst any) *apiErr {
	b, e := readBody(r)
	if e != nil {
		return e
	}
	if len(b) == 0 {
		b = []byte(`{}`)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return badRequest("invalid JSON", map[string]any{"error": err.Error()})
	}
	return nil
}

func requireDate(v, field string) (domain.Date, *apiErr) {
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, badRequest(fmt.Sprintf("%s must be an ISO date YYYY-MM-DD", field), nil)
	}
	return d, nil
}
