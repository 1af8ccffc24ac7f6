// Package handler exposes the voting operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quorum/internal/platform/middleware"
	"quorum/internal/transport/http/shared"
	"quorum/internal/voting"
	dErrors "quorum/pkg/domain-errors"
)

// Service defines the voting operations the handler needs.
type Service interface {
	CreateTopic(ctx context.Context, title, description string) (voting.Topic, error)
	ListTopics(ctx context.Context) ([]voting.Topic, error)
	OpenSession(ctx context.Context, topicID string, minutes float64) (voting.Session, error)
	SessionForTopic(ctx context.Context, topicID string) (voting.Session, bool, error)
	CastVote(ctx context.Context, topicID, rawCPF string, choice voting.Choice) error
	Tally(ctx context.Context, topicID string) (voting.Tally, error)
}

// Handler handles topic, session, vote, and tally endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the voting routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/topics", h.handleCreateTopic)
	r.Get("/topics", h.handleListTopics)
	r.Post("/topics/{topicID}/session", h.handleOpenSession)
	r.Get("/topics/{topicID}/session", h.handleGetSession)
	r.Post("/topics/{topicID}/votes", h.handleCastVote)
	r.Get("/topics/{topicID}/result", h.handleTally)
}

func (h *Handler) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	topic, err := h.service.CreateTopic(ctx, req.Title, req.Description)
	if err != nil {
		h.logError(ctx, "create topic failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, topic)
}

func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		h.logError(r.Context(), "list topics failed", err)
		shared.WriteError(w, err)
		return
	}
	if topics == nil {
		topics = []voting.Topic{}
	}
	shared.WriteJSON(w, http.StatusOK, topics)
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topicID := chi.URLParam(r, "topicID")

	// Duration defaults to one minute when the body is empty or omits it.
	var req openSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := h.service.OpenSession(ctx, topicID, req.DurationMinutes)
	if err != nil {
		h.logError(ctx, "open session failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, sessionResponse{Session: session, Open: true})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, open, err := h.service.SessionForTopic(r.Context(), chi.URLParam(r, "topicID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sessionResponse{Session: session, Open: open})
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topicID := chi.URLParam(r, "topicID")

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	if err := h.service.CastVote(ctx, topicID, req.CPF, req.Choice); err != nil {
		h.logError(ctx, "cast vote rejected", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusAccepted, castVoteResponse{Message: "vote recorded"})
}

func (h *Handler) handleTally(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.Tally(r.Context(), chi.URLParam(r, "topicID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tally)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
	)
}
