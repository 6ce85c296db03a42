package handlers

import (
	"net/http"
	"strconv"

	"wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/pkg/logger"
)

const defaultAlertLimit = 50

// AlertsHandler handles alert audit trail endpoints
type AlertsHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(repos *repository.Repositories, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		repos:  repos,
		logger: log.WithComponent("alerts"),
	}
}

// List handles GET /api/v1/alerts
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultAlertLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	events, err := h.repos.Alerts.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list alert events")
		respondError(w, http.StatusInternalServerError, "failed to list alert events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  events,
		"total": len(events),
	})
}
