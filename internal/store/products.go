package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-dashboard/internal/models"
)

// ErrProductNotFound is returned when no row matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// InsertProduct inserts a new product row and fills in the assigned id.
// created_at is assigned by the store and read back by the caller.
func (s *Store) InsertProduct(ctx context.Context, name string, price float64, status string, description *string) (int64, error) {
	query := `
		INSERT INTO products (name, price, status, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	if err := s.db.GetContext(ctx, &id, query, name, price, status, description); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products, newest first
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY created_at DESC, id DESC")
	return products, err
}

// UpdateProduct overwrites every mutable field of a product. The statement
// does not report whether a row matched; callers detect a missing row by
// re-reading afterwards.
func (s *Store) UpdateProduct(ctx context.Context, id int64, name string, price float64, status string, description *string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, price = $2, status = $3, description = $4 WHERE id = $5",
		name, price, status, description, id)
	return err
}

// UpdateProductStatus overwrites only the status column
func (s *Store) UpdateProductStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET status = $1 WHERE id = $2",
		status, id)
	return err
}

// DeleteProduct removes a product row. Returns the number of rows deleted;
// deleting an id that does not exist is not an error.
func (s *Store) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StatusStatistics groups all products by status with count and price sum
func (s *Store) StatusStatistics(ctx context.Context) ([]models.StatusStatistics, error) {
	stats := []models.StatusStatistics{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total_value
		FROM products
		GROUP BY status
		ORDER BY status`)
	return stats, err
}

// TotalStatistics returns the overall product count and price sum
func (s *Store) TotalStatistics(ctx context.Context) (models.Totals, error) {
	var totals models.Totals
	err := s.db.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS total_products, COALESCE(SUM(price), 0) AS total_value
		FROM products`)
	return totals, err
}
