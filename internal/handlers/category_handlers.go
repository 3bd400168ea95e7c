package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school_ops_backend/internal/middleware"
	"school_ops_backend/internal/models"
	"school_ops_backend/internal/services"
	"school_ops_backend/pkg/utils"
)

// CategoryHandler serves category management. The list is open to every
// authenticated caller; mutations sit behind AdminOnly in the router.
type CategoryHandler struct {
	svc services.CategoryService
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(svc services.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// GetCategories returns the cached category list with item counts.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.svc.Categories()})
}

// CreateCategory adds a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), rc, category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCategory renames or re-describes a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	categoryID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid category ID", ""))
		return
	}

	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), rc, categoryID, category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCategory removes an unused category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	categoryID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid category ID", ""))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), rc, categoryID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
