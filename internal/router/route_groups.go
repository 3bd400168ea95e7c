package router

import (
	"github.com/gin-gonic/gin"

	"school_ops_backend/internal/handlers"
	"school_ops_backend/internal/middleware"
)

// SetupInventoryRoutes sets up the item list, mutation and report routes.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	{
		inventoryRoutes.GET("/items", inventoryHandler.GetItems)
		inventoryRoutes.POST("/items", inventoryHandler.CreateItem)
		inventoryRoutes.PUT("/items/:id", inventoryHandler.UpdateItem)
		inventoryRoutes.DELETE("/items/:id", middleware.AdminOnly(), inventoryHandler.DeleteItem)
		inventoryRoutes.GET("/items/:id/report", inventoryHandler.GetItemReport)
		inventoryRoutes.GET("/summary", inventoryHandler.GetSummary)
		inventoryRoutes.GET("/options", inventoryHandler.GetOptions)
		inventoryRoutes.POST("/reports", inventoryHandler.CreateInventoryReport)
	}

	authenticatedGroup.GET("/schools", inventoryHandler.GetSchools)
	authenticatedGroup.GET("/users/assignable", inventoryHandler.GetAssignableUsers)
}

// SetupTransferRoutes sets up the transfer workflow routes.
func SetupTransferRoutes(authenticatedGroup *gin.RouterGroup, transferHandler *handlers.TransferHandler) {
	transferRoutes := authenticatedGroup.Group("/transfers")
	{
		transferRoutes.POST("", transferHandler.Submit)
		transferRoutes.POST("/selection", transferHandler.UpdateSelection)
		transferRoutes.GET("/preview", transferHandler.GetPreview)
		transferRoutes.DELETE("/workflow", transferHandler.CloseWorkflow)
	}
}

// SetupCategoryRoutes sets up the category management routes. Reads are
// open to every authenticated caller; mutations are admin-only.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", categoryHandler.GetCategories)

		adminRoutes := categoryRoutes.Group("")
		adminRoutes.Use(middleware.AdminOnly())
		{
			adminRoutes.POST("", categoryHandler.CreateCategory)
			adminRoutes.PUT("/:id", categoryHandler.UpdateCategory)
			adminRoutes.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}
