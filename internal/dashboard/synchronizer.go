package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/util"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Synchronizer keeps a local in-memory mirror of the product collection and
// statistics. It is seeded by an initial full fetch and kept current by
// applying broadcast events: prepend on create, replace-by-id on update,
// remove-by-id on delete. Statistics are always re-fetched whole after an
// event rather than updated incrementally, so between the local apply and
// the re-fetch the two views can be momentarily out of sync.
type Synchronizer struct {
	apiURL     string
	wsURL      string
	httpClient *http.Client
	logger     *zap.Logger

	// OnEvent, when set, is called after each applied event.
	OnEvent func(env models.Envelope)

	mu       sync.RWMutex
	products []models.Product
	stats    models.StatisticsSnapshot
}

// NewSynchronizer creates a synchronizer for a server base URL such as
// "http://localhost:5000".
func NewSynchronizer(baseURL string) *Synchronizer {
	base := strings.TrimSuffix(baseURL, "/")
	return &Synchronizer{
		apiURL:     base + "/api",
		wsURL:      "ws" + strings.TrimPrefix(base, "http") + "/ws",
		httpClient: http.DefaultClient,
		logger:     util.GetLogger(),
	}
}

// Load seeds the mirror with a full fetch of products and statistics
func (s *Synchronizer) Load(ctx context.Context) error {
	var products []models.Product
	if err := s.fetch(ctx, "/products", &products); err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	var stats models.StatisticsSnapshot
	if err := s.fetch(ctx, "/stats", &stats); err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.stats = stats
	s.mu.Unlock()
	return nil
}

// Run connects to the real-time channel and applies events until the context
// is cancelled or the connection drops.
func (s *Synchronizer) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var env models.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		if err := s.Apply(env); err != nil {
			s.logger.Warn("Failed to apply event",
				zap.String("event", env.Event),
				zap.Error(err))
			continue
		}

		if err := s.refreshStats(ctx); err != nil {
			s.logger.Warn("Failed to refresh statistics", zap.Error(err))
		}

		if s.OnEvent != nil {
			s.OnEvent(env)
		}
	}
}

// Apply performs the pure local transformation for one broadcast event
func (s *Synchronizer) Apply(env models.Envelope) error {
	switch env.Event {
	case models.EventTypeProductCreated:
		var product models.Product
		if err := json.Unmarshal(env.Data, &product); err != nil {
			return err
		}
		s.mu.Lock()
		s.products = append([]models.Product{product}, s.products...)
		s.mu.Unlock()

	case models.EventTypeProductUpdated, models.EventTypeProductStatusUpdated:
		var product models.Product
		if err := json.Unmarshal(env.Data, &product); err != nil {
			return err
		}
		s.mu.Lock()
		for i := range s.products {
			if s.products[i].ID == product.ID {
				s.products[i] = product
			}
		}
		s.mu.Unlock()

	case models.EventTypeProductDeleted:
		var payload models.DeletedPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return err
		}
		s.mu.Lock()
		kept := s.products[:0]
		for _, p := range s.products {
			if p.ID != payload.ID {
				kept = append(kept, p)
			}
		}
		s.products = kept
		s.mu.Unlock()

	default:
		return fmt.Errorf("unknown event type: %s", env.Event)
	}

	return nil
}

// Products returns a copy of the mirrored product list, newest first
func (s *Synchronizer) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Stats returns the mirrored statistics snapshot
func (s *Synchronizer) Stats() models.StatisticsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Synchronizer) refreshStats(ctx context.Context) error {
	var stats models.StatisticsSnapshot
	if err := s.fetch(ctx, "/stats", &stats); err != nil {
		return err
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) fetch(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
