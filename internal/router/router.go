package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"school_ops_backend/internal/cache"
	"school_ops_backend/internal/handlers"
	"school_ops_backend/internal/metrics"
	"school_ops_backend/internal/middleware"
	"school_ops_backend/internal/services"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// Config carries the deployment settings the router needs to build its
// collaborators.
type Config struct {
	UpstreamBaseURL  string
	UpstreamAPIToken string
	DocumentDir      string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, cfg Config) {
	// Initialize the upstream data access client and warm the local cache.
	client := upstream.NewClient(upstream.Config{
		BaseURL:  cfg.UpstreamBaseURL,
		APIToken: cfg.UpstreamAPIToken,
	})
	store := cache.NewStore(client)

	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store.WarmUp(warmCtx)

	// Initialize Services
	inventoryService := services.NewInventoryService(client, store, cfg.DocumentDir)
	transferService := services.NewTransferService(client, store, cfg.DocumentDir)
	categoryService := services.NewCategoryService(client, store)

	// Initialize Handlers
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, transferService)
	transferHandler := handlers.NewTransferHandler(transferService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.RequestID())
	apiV1.Use(utils.GinLogger())
	apiV1.Use(metrics.PrometheusMiddleware())

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())

	SetupInventoryRoutes(authenticated, inventoryHandler)
	SetupTransferRoutes(authenticated, transferHandler)
	SetupCategoryRoutes(authenticated, categoryHandler)
}
