package handlers

import (
	"encoding/json"
	"net/http"

	"wellmind-backend/internal/domain/services"
	"wellmind-backend/internal/infrastructure/cache"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/internal/streaming"
	"wellmind-backend/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Sessions  *SessionsHandler
	Profile   *ProfileHandler
	Contacts  *ContactsHandler
	Alerts    *AlertsHandler
	Dashboard *DashboardHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Chat      *services.ChatService
	Dashboard *services.DashboardService
	Cache     *cache.RedisCache
	Repos     *repository.Repositories
	WSHub     *streaming.WebSocketHub
	EventBus  *streaming.EventBus
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Cache, deps.Repos, deps.Logger),
		Sessions:  NewSessionsHandler(deps.Chat, deps.Dashboard, deps.Logger),
		Profile:   NewProfileHandler(deps.Repos, deps.Logger),
		Contacts:  NewContactsHandler(deps.Repos, deps.Logger),
		Alerts:    NewAlertsHandler(deps.Repos, deps.Logger),
		Dashboard: NewDashboardHandler(deps.Dashboard, deps.Logger),
		Streaming: NewStreamingHandler(deps.WSHub, deps.EventBus, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
