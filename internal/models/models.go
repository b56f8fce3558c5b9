package models

import "time"

// Product represents an inventory item
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Status      string    `db:"status" json:"status"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Product statuses
const (
	StatusNew       = "new"
	StatusSold      = "sold"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// StatusStatistics aggregates products sharing one status
type StatusStatistics struct {
	Status     string  `db:"status" json:"status"`
	Count      int64   `db:"count" json:"count"`
	TotalValue float64 `db:"total_value" json:"total_value"`
}

// Totals aggregates the whole product table
type Totals struct {
	TotalProducts int64   `db:"total_products" json:"total_products"`
	TotalValue    float64 `db:"total_value" json:"total_value"`
}

// StatisticsSnapshot is the derived aggregation returned by /api/stats.
// It is recomputed from product rows on every request and never persisted.
type StatisticsSnapshot struct {
	ByStatus []StatusStatistics `json:"by_status"`
	Totals   Totals             `json:"totals"`
}
