package broker

import (
	"context"
	"time"

	"github.com/VivanRajath/Neusearch/internal/models"

	"github.com/google/uuid"
)

// EventPublisher publishes analytics events. A publisher with a nil producer
// is a no-op, so event publishing can be disabled by configuration without
// branching at every call site.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishChatQuery publishes a ChatQuery event
func (ep *EventPublisher) PublishChatQuery(ctx context.Context, sessionID, query string, answered bool, recommendations int) error {
	if ep.producer == nil {
		return nil
	}
	event := &models.ChatQueryEvent{
		BaseEvent:       newBaseEvent(models.EventTypeChatQuery),
		SessionID:       sessionID,
		Query:           query,
		Answered:        answered,
		Recommendations: recommendations,
	}
	return ep.producer.PublishEvent(ctx, "session-"+sessionID, event)
}

// PublishProductViewed publishes a ProductViewed event
func (ep *EventPublisher) PublishProductViewed(ctx context.Context, sessionID string, productID int64, found bool) error {
	if ep.producer == nil {
		return nil
	}
	event := &models.ProductViewedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductViewed),
		SessionID: sessionID,
		ProductID: productID,
		Found:     found,
	}
	return ep.producer.PublishEvent(ctx, "session-"+sessionID, event)
}

// PublishCatalogReloaded publishes a CatalogReloaded event
func (ep *EventPublisher) PublishCatalogReloaded(ctx context.Context, productCount int, generation uint64) error {
	if ep.producer == nil {
		return nil
	}
	event := &models.CatalogReloadedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeCatalogReloaded),
		ProductCount: productCount,
		Generation:   generation,
	}
	return ep.producer.PublishEvent(ctx, "catalog", event)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
