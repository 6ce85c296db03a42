package streaming

import (
	"context"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
)

// EventBusPublisher implements services.RiskPublisher using the EventBus
type EventBusPublisher struct {
	eventBus *EventBus
	wsHub    *WebSocketHub
}

// NewEventBusPublisher creates a new publisher adapter
func NewEventBusPublisher(eventBus *EventBus, wsHub *WebSocketHub) *EventBusPublisher {
	return &EventBusPublisher{
		eventBus: eventBus,
		wsHub:    wsHub,
	}
}

// PublishRisk publishes an event for a committed analysis result
func (p *EventBusPublisher) PublishRisk(ctx context.Context, userID uuid.UUID, result *models.AnalysisResult) {
	if result == nil {
		return
	}
	event := NewRiskEvent(userID, result)

	// Publish to event bus (NATS + local subscribers)
	if p.eventBus != nil {
		_ = p.eventBus.Publish(ctx, event)
	}

	// Broadcast to WebSocket clients
	if p.wsHub != nil {
		p.wsHub.BroadcastEvent(event)
	}
}

// PublishAlert publishes an event for a sent alert
func (p *EventBusPublisher) PublishAlert(ctx context.Context, userID uuid.UUID, result *models.AnalysisResult) {
	if result == nil {
		return
	}
	event := NewAlertEvent(userID, result)

	if p.eventBus != nil {
		_ = p.eventBus.Publish(ctx, event)
	}
	if p.wsHub != nil {
		p.wsHub.BroadcastEvent(event)
	}
}
