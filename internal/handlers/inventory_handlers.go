package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/middleware"
	"school_ops_backend/internal/services"
	"school_ops_backend/pkg/utils"
)

// InventoryHandler serves the item list and the add/edit/delete workflows.
type InventoryHandler struct {
	svc       services.InventoryService
	transfers services.TransferService
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(svc services.InventoryService, transfers services.TransferService) *InventoryHandler {
	return &InventoryHandler{svc: svc, transfers: transfers}
}

// ItemFormRequest is the add/edit body: the form fields plus the bulk
// confirmation flag.
type ItemFormRequest struct {
	inventory.ItemForm
	ConfirmBulk bool `json:"confirm_bulk"`
}

// GetItems returns the cached items matching the query criteria. The
// criteria also feed the caller's transfer workflow, so changing filters
// here clears any pending selection.
func (h *InventoryHandler) GetItems(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	var criteria inventory.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid filter parameters", err.Error()))
		return
	}

	criteria = h.transfers.SetCriteria(rc, criteria)
	items := h.svc.VisibleItems(criteria)
	c.JSON(http.StatusOK, gin.H{"items": items, "criteria": criteria})
}

// CreateItem handles single and bulk creation.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	var req ItemFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	result, err := h.svc.CreateItem(c.Request.Context(), rc, req.ItemForm, req.ConfirmBulk)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateItem handles the edit workflow.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid item ID", ""))
		return
	}

	var req ItemFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), rc, itemID, req.ItemForm)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles the admin-only delete.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid item ID", ""))
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), rc, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetSummary returns the cached dashboard summary.
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	summary, err := h.svc.Summary()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOptions returns the role-scoped picker option sets for the filter bar
// and the add/edit/transfer forms.
func (h *InventoryHandler) GetOptions(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"filter_locations": h.svc.LocationOptions(rc, true),
		"form_locations":   h.svc.LocationOptions(rc, false),
		"users":            h.svc.AssignableUsers(rc),
		"schools":          h.svc.Schools(rc),
	})
}

// GetSchools returns the role-scoped school list.
func (h *InventoryHandler) GetSchools(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)
	c.JSON(http.StatusOK, gin.H{"schools": h.svc.Schools(rc)})
}

// GetAssignableUsers returns the role-scoped assignable user list.
func (h *InventoryHandler) GetAssignableUsers(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)
	c.JSON(http.StatusOK, gin.H{"users": h.svc.AssignableUsers(rc)})
}

// GetItemReport downloads the item detail document.
func (h *InventoryHandler) GetItemReport(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid item ID", ""))
		return
	}

	name, data, err := h.svc.ItemDetailReport(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// InventoryReportRequest is the body for the list report document.
type InventoryReportRequest struct {
	Filters    inventory.FilterCriteria `json:"filters"`
	GroupItems bool                     `json:"group_items"`
}

// CreateInventoryReport generates and downloads the inventory list report.
func (h *InventoryHandler) CreateInventoryReport(c *gin.Context) {
	var req InventoryReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	name, data, err := h.svc.InventoryListReport(c.Request.Context(), req.Filters, req.GroupItems)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
