package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school_ops_backend/internal/middleware"
	"school_ops_backend/internal/services"
	"school_ops_backend/pkg/utils"
)

// TransferHandler serves the per-user transfer workflow: selection
// management, the grouped preview and the submission itself.
type TransferHandler struct {
	svc services.TransferService
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(svc services.TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// Selection actions.
const (
	selectionToggle    = "toggle"
	selectionToggleAll = "toggle_all"
	selectionClear     = "clear"
)

// SelectionRequest mutates the caller's selection.
type SelectionRequest struct {
	Action string `json:"action" binding:"required"`
	ItemID int64  `json:"item_id"`
}

// UpdateSelection applies a selection action and returns the new preview.
func (h *TransferHandler) UpdateSelection(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	switch req.Action {
	case selectionToggle:
		if req.ItemID == 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
				utils.ErrCodeBadRequest, "item_id is required for toggle", ""))
			return
		}
		h.svc.Toggle(rc, req.ItemID)
	case selectionToggleAll:
		h.svc.ToggleAll(rc)
	case selectionClear:
		h.svc.ClearSelection(rc)
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Unknown selection action: "+req.Action, ""))
		return
	}

	c.JSON(http.StatusOK, h.svc.Preview(rc))
}

// GetPreview returns the current selection, its grouping and the
// homogeneity verdict.
func (h *TransferHandler) GetPreview(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)
	c.JSON(http.StatusOK, h.svc.Preview(rc))
}

// Submit runs a transfer or report-only submission and streams the
// resulting document back. The outcome message travels in a header so the
// body can stay the raw document.
func (h *TransferHandler) Submit(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)

	var req services.SubmitTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest,
			utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), rc, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Header("X-Transfer-Message", result.Message)
	c.Data(http.StatusOK, "application/pdf", result.Document)
}

// CloseWorkflow abandons the caller's transfer workflow; late responses
// from in-flight submissions are dropped.
func (h *TransferHandler) CloseWorkflow(c *gin.Context) {
	rc, _ := middleware.RoleContextFrom(c)
	h.svc.CloseWorkflow(rc)
	c.JSON(http.StatusOK, gin.H{"message": "Workflow closed"})
}
