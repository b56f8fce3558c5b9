package api

import (
	"net/http"
	"strconv"
	"time"

	"inventory-dashboard/internal/hub"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/store"
	"inventory-dashboard/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	products *service.ProductService
	stats    *service.StatsService
	hub      *hub.Hub
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(products *service.ProductService, stats *service.StatsService, h *hub.Hub) *Handler {
	return &Handler{
		products: products,
		stats:    stats,
		hub:      h,
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine, corsOrigin string) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{corsOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", h.serveWS)

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.POST("/products", h.createProduct)
		api.PUT("/products/:id", h.updateProduct)
		api.PATCH("/products/:id/status", h.updateProductStatus)
		api.DELETE("/products/:id", h.deleteProduct)
		api.GET("/stats", h.getStats)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns all products, newest first
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// getProduct returns a single product by id
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err == store.ErrProductNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch product", zap.Int64("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// updateProduct overwrites every mutable field of a product
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, &req)
	if err == store.ErrProductNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to update product", zap.Int64("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// updateProductStatus overwrites only the status of a product
func (h *Handler) updateProductStatus(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.UpdateStatus(c.Request.Context(), id, req.Status)
	if err == store.ErrProductNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to update product status", zap.Int64("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product status"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a product. Reports success whether or not a row
// matched, and the deletion event fires either way.
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// getStats returns the statistics snapshot
func (h *Handler) getStats(c *gin.Context) {
	snapshot, err := h.stats.GetStatistics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// productID parses the :id path parameter, responding 400 on garbage
func (h *Handler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
