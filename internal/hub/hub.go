package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer is the number of events a subscriber may lag behind
// before the hub drops it.
const subscriberBuffer = 64

// Subscriber is one connected real-time client's view of the hub.
type Subscriber struct {
	events    chan models.Envelope
	closeOnce sync.Once
}

// Events returns the channel broadcast envelopes are delivered on. The
// channel is closed when the subscriber leaves the hub or is dropped.
func (s *Subscriber) Events() <-chan models.Envelope {
	return s.events
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() { close(s.events) })
}

// Hub maintains the set of connected real-time clients and fans mutation
// events out to all of them. There is no acknowledgment, delivery guarantee
// or replay: a client that joins after a mutation never sees its event and
// catches up through its initial full fetch.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	logger      *zap.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		logger:      util.GetLogger(),
	}
}

// Subscribe registers a new client with the hub
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{events: make(chan models.Envelope, subscriberBuffer)}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	n := len(h.subscribers)
	h.mu.Unlock()

	util.ConnectedClients.Set(float64(n))
	h.logger.Info("Client connected", zap.Int("clients", n))
	return sub
}

// Unsubscribe removes a client and closes its event channel. Safe to call
// more than once for the same subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	n := len(h.subscribers)
	sub.close()
	h.mu.Unlock()

	if ok {
		util.ConnectedClients.Set(float64(n))
		h.logger.Info("Client disconnected", zap.Int("clients", n))
	}
}

// Len returns the number of currently connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// PublishProductCreated broadcasts a product_created event
func (h *Hub) PublishProductCreated(event models.ProductCreatedEvent) error {
	return h.publish(models.EventTypeProductCreated, event.Product)
}

// PublishProductUpdated broadcasts a product_updated event
func (h *Hub) PublishProductUpdated(event models.ProductUpdatedEvent) error {
	return h.publish(models.EventTypeProductUpdated, event.Product)
}

// PublishProductStatusUpdated broadcasts a product_status_updated event
func (h *Hub) PublishProductStatusUpdated(event models.ProductStatusUpdatedEvent) error {
	return h.publish(models.EventTypeProductStatusUpdated, event.Product)
}

// PublishProductDeleted broadcasts a product_deleted event carrying the id
func (h *Hub) PublishProductDeleted(event models.ProductDeletedEvent) error {
	return h.publish(models.EventTypeProductDeleted, models.DeletedPayload{ID: event.ID})
}

// publish marshals the payload once and fans the envelope out to the member
// set as it stood at the moment of the call. The sends are non-blocking and
// happen under the registry lock, so a client joining or leaving mid-fan-out
// never disturbs the iteration and a closed channel is never written to. A
// subscriber whose buffer is full is dropped on the spot.
func (h *Hub) publish(eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := models.Envelope{
		EventID:   uuid.New().String(),
		Event:     eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	delivered, dropped := 0, 0
	for sub := range h.subscribers {
		select {
		case sub.events <- envelope:
			delivered++
		default:
			delete(h.subscribers, sub)
			sub.close()
			dropped++
		}
	}
	n := len(h.subscribers)
	h.mu.Unlock()

	if dropped > 0 {
		util.ConnectedClients.Set(float64(n))
		h.logger.Warn("Dropped slow clients",
			zap.String("event", eventType),
			zap.Int("dropped", dropped))
	}

	util.EventsPublishedTotal.WithLabelValues(eventType).Inc()
	h.logger.Info("Published event",
		zap.String("event", eventType),
		zap.String("event_id", envelope.EventID),
		zap.Int("clients", delivered))
	return nil
}
