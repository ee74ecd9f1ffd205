package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/validation"
	"subscription-tracker/internal/infra/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error      string                 `json:"error"`
	Kind       validation.Kind        `json:"kind,omitempty"`
	Violations []validation.Violation `json:"violations,omitempty"`
	TraceID    string                 `json:"trace_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps use case errors to HTTP responses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := validation.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      "validation failed",
			Kind:       ve.Kind,
			Violations: ve.Violations,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "subscription not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid argument")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "subscription already exists")
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal error",
			TraceID: logging.TraceIDFrom(r.Context()),
		})
	}
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*model.SubscriptionInput, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	in, err := ParseSubscriptionJSON(body)
	if err != nil {
		if _, ok := validation.AsValidationError(err); ok {
			s.writeDomainError(w, r, err)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return in, true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	sub, err := s.subs.Create(r.Context(), in)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	sub, err := s.subs.Validate(r.Context(), in)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	records, err := SplitRecords(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(records) > maxBatchRecords {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch exceeds %d records", maxBatchRecords))
		return
	}

	items := ValidateRecords(r.Context(), s.subs, records, s.batchWorkers)
	valid := 0
	for _, it := range items {
		if it.Valid {
			valid++
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Items   []BatchItem `json:"items"`
		Valid   int         `json:"valid"`
		Invalid int         `json:"invalid"`
	}{Items: items, Valid: valid, Invalid: len(items) - valid})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ctx := logging.WithUserID(r.Context(), userID)
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		s.writeDomainError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Items []*model.Subscription `json:"items"`
		Total int                   `json:"total"`
	}{Items: subs, Total: len(subs)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.subs.CountByStatus(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	byStatus := make(map[string]int, len(model.Statuses))
	total := 0
	for _, st := range model.Statuses {
		byStatus[string(st)] = counts[st]
		total += counts[st]
	}
	writeJSON(w, http.StatusOK, struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
	}{Total: total, ByStatus: byStatus})
}
