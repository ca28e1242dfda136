package models

import "time"

// Event types
const (
	EventTypeChatQuery       = "CHAT_QUERY"
	EventTypeProductViewed   = "PRODUCT_VIEWED"
	EventTypeCatalogReloaded = "CATALOG_RELOADED"
)

// BaseEvent contains common fields for all analytics events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatQueryEvent published after each completed chat exchange
type ChatQueryEvent struct {
	BaseEvent
	SessionID       string `json:"session_id"`
	Query           string `json:"query"`
	Answered        bool   `json:"answered"`
	Recommendations int    `json:"recommendations"`
}

// ProductViewedEvent published when a detail view resolves
type ProductViewedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
	Found     bool   `json:"found"`
}

// CatalogReloadedEvent published when a snapshot reload completes
type CatalogReloadedEvent struct {
	BaseEvent
	ProductCount int    `json:"product_count"`
	Generation   uint64 `json:"generation"`
}
