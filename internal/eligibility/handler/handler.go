// Package handler exposes the eligibility gate and the audit trail over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quorum/internal/cpf"
	"quorum/internal/eligibility"
	"quorum/internal/transport/http/shared"
)

// The user surface keeps the external service's status vocabulary.
const (
	statusAbleToVote   = "ABLE_TO_VOTE"
	statusUnableToVote = "UNABLE_TO_VOTE"
)

// Service defines the eligibility operations the handler needs.
type Service interface {
	CheckIdentity(ctx context.Context, rawCPF string) (eligibility.Status, error)
	Audit(ctx context.Context) ([]eligibility.AuditRecord, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the eligibility routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/eligibility/audit", h.handleAudit)
	r.Get("/eligibility/{cpf}", h.handleCheck)
}

type checkResponse struct {
	CPF    string `json:"cpf"`
	Status string `json:"status"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "cpf")
	status, err := h.service.CheckIdentity(r.Context(), raw)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	resp := checkResponse{CPF: cpf.Digits(raw), Status: statusUnableToVote}
	if status == eligibility.StatusEligible {
		resp.Status = statusAbleToVote
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Audit(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list audit records", "error", err.Error())
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []eligibility.AuditRecord{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}
