package handlers

import (
	"net/http"
	"strconv"

	"wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/domain/services"
	"wellmind-backend/pkg/logger"
)

// DashboardHandler handles dashboard metric endpoints
type DashboardHandler struct {
	dashboard *services.DashboardService
	logger    *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *services.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    log.WithComponent("dashboard"),
	}
}

// Metrics handles GET /api/v1/dashboard/metrics?days=N
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	metrics, err := h.dashboard.Metrics(r.Context(), userID, days)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute dashboard metrics")
		respondError(w, http.StatusInternalServerError, "failed to compute dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
