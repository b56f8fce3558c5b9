package service

import (
	"context"
	"fmt"

	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/store"
	"inventory-dashboard/internal/util"

	"go.uber.org/zap"
)

// ProductStore is the persistence surface the mutation service needs
type ProductStore interface {
	InsertProduct(ctx context.Context, name string, price float64, status string, description *string) (int64, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, price float64, status string, description *string) error
	UpdateProductStatus(ctx context.Context, id int64, status string) error
	DeleteProduct(ctx context.Context, id int64) (int64, error)
}

// EventPublisher fans mutation events out to connected clients
type EventPublisher interface {
	PublishProductCreated(event models.ProductCreatedEvent) error
	PublishProductUpdated(event models.ProductUpdatedEvent) error
	PublishProductStatusUpdated(event models.ProductStatusUpdatedEvent) error
	PublishProductDeleted(event models.ProductDeletedEvent) error
}

// ProductService handles product mutations and reads. Every successful
// mutation publishes exactly one event whose payload matches the value
// returned to the caller. Publication happens synchronously after the store
// operation but is not transactional with it.
type ProductService struct {
	store     ProductStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store ProductStore, publisher EventPublisher) *ProductService {
	return &ProductService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

// UpdateProductRequest replaces every mutable field of a product. This is a
// full overwrite, not a merge patch: an omitted description is written as
// null.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

// Create inserts a product and returns the row as the store committed it.
// Status defaults to "new" when absent.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Create")
	defer span.End()

	status := req.Status
	if status == "" {
		status = models.StatusNew
	}

	id, err := s.store.InsertProduct(ctx, req.Name, req.Price, status, req.Description)
	if err != nil {
		util.MutationsFailedTotal.WithLabelValues("create", "db_error").Inc()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		util.MutationsFailedTotal.WithLabelValues("create", "db_error").Inc()
		return nil, fmt.Errorf("failed to read back product %d: %w", id, err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name))

	if err := s.publisher.PublishProductCreated(models.ProductCreatedEvent{Product: *product}); err != nil {
		s.logger.Error("Failed to publish product_created event", zap.Error(err))
	}

	return product, nil
}

// Get retrieves a single product by id
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// List retrieves all products, newest first
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// Update overwrites all mutable fields, then re-reads the row. The write is
// unconditional; a missing row only surfaces through the re-read, so a
// concurrent delete between write and re-read reports Not-Found even though
// the update statement itself succeeded.
func (s *ProductService) Update(ctx context.Context, id int64, req *UpdateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	if err := s.store.UpdateProduct(ctx, id, req.Name, req.Price, req.Status, req.Description); err != nil {
		util.MutationsFailedTotal.WithLabelValues("update", "db_error").Inc()
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if err != store.ErrProductNotFound {
			util.MutationsFailedTotal.WithLabelValues("update", "db_error").Inc()
		}
		return nil, err
	}

	util.ProductsUpdatedTotal.Inc()
	s.logger.Info("Product updated", zap.Int64("product_id", product.ID))

	if err := s.publisher.PublishProductUpdated(models.ProductUpdatedEvent{Product: *product}); err != nil {
		s.logger.Error("Failed to publish product_updated event", zap.Error(err))
	}

	return product, nil
}

// UpdateStatus overwrites only the status column, with the same
// write-then-re-read existence check as Update.
func (s *ProductService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.UpdateStatus")
	defer span.End()

	if err := s.store.UpdateProductStatus(ctx, id, status); err != nil {
		util.MutationsFailedTotal.WithLabelValues("update_status", "db_error").Inc()
		return nil, fmt.Errorf("failed to update status of product %d: %w", id, err)
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if err != store.ErrProductNotFound {
			util.MutationsFailedTotal.WithLabelValues("update_status", "db_error").Inc()
		}
		return nil, err
	}

	util.ProductStatusChangesTotal.Inc()
	s.logger.Info("Product status updated",
		zap.Int64("product_id", product.ID),
		zap.String("status", product.Status))

	if err := s.publisher.PublishProductStatusUpdated(models.ProductStatusUpdatedEvent{Product: *product}); err != nil {
		s.logger.Error("Failed to publish product_status_updated event", zap.Error(err))
	}

	return product, nil
}

// Delete removes a product unconditionally. Deleting an id with no row still
// reports success and still broadcasts a product_deleted event with that id,
// so every connected client converges on the row being gone.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "ProductService.Delete")
	defer span.End()

	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		util.MutationsFailedTotal.WithLabelValues("delete", "db_error").Inc()
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if deleted == 0 {
		s.logger.Warn("Delete matched no row", zap.Int64("product_id", id))
	}

	util.ProductsDeletedTotal.Inc()
	s.logger.Info("Product deleted", zap.Int64("product_id", id))

	if err := s.publisher.PublishProductDeleted(models.ProductDeletedEvent{ID: id}); err != nil {
		s.logger.Error("Failed to publish product_deleted event", zap.Error(err))
	}

	return nil
}
