package models

import (
	"encoding/json"
	"time"
)

// Event types emitted over the real-time channel
const (
	EventTypeProductCreated       = "product_created"
	EventTypeProductUpdated       = "product_updated"
	EventTypeProductStatusUpdated = "product_status_updated"
	EventTypeProductDeleted       = "product_deleted"
)

// Envelope is the wire format for broadcast events. Data carries the full
// Product for create/update events and a DeletedPayload for deletions.
type Envelope struct {
	EventID   string          `json:"event_id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// ProductCreatedEvent published when a product row is inserted
type ProductCreatedEvent struct {
	Product Product
}

// ProductUpdatedEvent published when all mutable fields are overwritten
type ProductUpdatedEvent struct {
	Product Product
}

// ProductStatusUpdatedEvent published when only the status changes
type ProductStatusUpdatedEvent struct {
	Product Product
}

// ProductDeletedEvent published when a row is removed. Only the id survives
// the deletion, so that is all the event carries.
type ProductDeletedEvent struct {
	ID int64
}

// DeletedPayload is the wire payload of a product_deleted event
type DeletedPayload struct {
	ID int64 `json:"id"`
}
