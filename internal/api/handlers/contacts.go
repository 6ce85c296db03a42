package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/pkg/logger"
)

// ContactsHandler handles emergency contact endpoints
type ContactsHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewContactsHandler creates a new ContactsHandler
func NewContactsHandler(repos *repository.Repositories, log *logger.Logger) *ContactsHandler {
	return &ContactsHandler{
		repos:  repos,
		logger: log.WithComponent("contacts"),
	}
}

// ContactRequest is the body of contact create/update requests
type ContactRequest struct {
	Name        string                `json:"name"`
	Channel     models.ContactChannel `json:"channel"`
	Destination string                `json:"destination"`
	Enabled     *bool                 `json:"enabled"`
}

func (req *ContactRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Destination = strings.TrimSpace(req.Destination)

	if req.Name == "" {
		return "name is required"
	}
	if req.Destination == "" {
		return "destination is required"
	}
	switch req.Channel {
	case models.ChannelEmail, models.ChannelSMS:
	default:
		return "channel must be EMAIL or SMS"
	}
	if req.Channel == models.ChannelEmail && !strings.Contains(req.Destination, "@") {
		return "destination must be an email address"
	}
	return ""
}

// List handles GET /api/v1/contacts
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	contacts, err := h.repos.Contacts.List(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list contacts")
		respondError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  contacts,
		"total": len(contacts),
	})
}

// Create handles POST /api/v1/contacts
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	contact, err := h.repos.Contacts.Create(r.Context(), &models.EmergencyContact{
		UserID:      userID,
		Name:        req.Name,
		Channel:     req.Channel,
		Destination: req.Destination,
		Enabled:     enabled,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create contact")
		respondError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// Update handles PUT /api/v1/contacts/{id}
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, contactID, ok := h.contactScope(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	contact, err := h.repos.Contacts.Update(r.Context(), &models.EmergencyContact{
		ID:          contactID,
		UserID:      userID,
		Name:        req.Name,
		Channel:     req.Channel,
		Destination: req.Destination,
		Enabled:     enabled,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to update contact")
		respondError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/v1/contacts/{id}
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, contactID, ok := h.contactScope(w, r)
	if !ok {
		return
	}

	if err := h.repos.Contacts.Delete(r.Context(), userID, contactID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to delete contact")
		respondError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) contactScope(w http.ResponseWriter, r *http.Request) (userID, contactID uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	contactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contact id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, contactID, true
}
