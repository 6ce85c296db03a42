package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/domain/services"
	"wellmind-backend/pkg/logger"
)

// SessionsHandler handles chat session endpoints
type SessionsHandler struct {
	chat      *services.ChatService
	dashboard *services.DashboardService
	logger    *logger.Logger
}

// NewSessionsHandler creates a new SessionsHandler
func NewSessionsHandler(chat *services.ChatService, dashboard *services.DashboardService, log *logger.Logger) *SessionsHandler {
	return &SessionsHandler{
		chat:      chat,
		dashboard: dashboard,
		logger:    log.WithComponent("sessions"),
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	session, err := h.chat.StartSession(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// List handles GET /api/v1/sessions
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.chat.ListSessions(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list sessions")
		respondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  sessions,
		"total": len(sessions),
	})
}

// Messages handles GET /api/v1/sessions/{id}/messages
func (h *SessionsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	detail, err := h.chat.GetSessionDetail(r.Context(), sessionID, userID)
	if err != nil {
		h.respondServiceError(w, err, "failed to load session")
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// SendRequest is the body of POST /api/v1/sessions/{id}/send
type SendRequest struct {
	Content string `json:"content"`
}

// Send handles POST /api/v1/sessions/{id}/send
func (h *SessionsHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	result, err := h.chat.SendMessage(r.Context(), sessionID, userID, req.Content)
	if err != nil {
		h.respondServiceError(w, err, "failed to process message")
		return
	}

	// New analysis landed; cached dashboards are stale
	if h.dashboard != nil {
		h.dashboard.Invalidate(r.Context(), userID)
	}

	respondJSON(w, http.StatusOK, result)
}

// Close handles POST /api/v1/sessions/{id}/close
func (h *SessionsHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	session, err := h.chat.CloseSession(r.Context(), sessionID, userID)
	if err != nil {
		h.respondServiceError(w, err, "failed to close session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// sessionScope resolves the authenticated user and the session path param
func (h *SessionsHandler) sessionScope(w http.ResponseWriter, r *http.Request) (userID, sessionID uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, sessionID, true
}

func (h *SessionsHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, services.ErrSessionClosed):
		respondError(w, http.StatusConflict, "session is closed")
	case errors.Is(err, services.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, "content is required")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
