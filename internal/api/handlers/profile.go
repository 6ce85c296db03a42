package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/pkg/logger"
)

// ProfileHandler handles profile and consent endpoints
type ProfileHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(repos *repository.Repositories, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		repos:  repos,
		logger: log.WithComponent("profile"),
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.repos.Profiles.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load profile")
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfileRequest is the body of PUT /api/v1/profile
type UpdateProfileRequest struct {
	DisplayName          *string `json:"display_name"`
	ConsentAlertsEnabled *bool   `json:"consent_alerts_enabled"`
	Timezone             *string `json:"timezone"`
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.repos.Profiles.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load profile")
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.ConsentAlertsEnabled != nil {
		profile.ConsentAlertsEnabled = *req.ConsentAlertsEnabled
		if *req.ConsentAlertsEnabled && profile.ConsentAcceptedAt == nil {
			now := time.Now()
			profile.ConsentAcceptedAt = &now
		}
	}

	updated, err := h.repos.Profiles.UpdateConsent(r.Context(), profile)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
