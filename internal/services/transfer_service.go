package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"school_ops_backend/internal/cache"
	"school_ops_backend/internal/documents"
	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/metrics"
	"school_ops_backend/internal/models"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// TransferPreview is the state of a transfer in progress: the effective
// selection, its display grouping and the homogeneity verdict. Mismatch is
// a persistent blocking condition, not a transient notice.
type TransferPreview struct {
	Items          []models.InventoryItem    `json:"items"`
	Groups         []inventory.TransferGroup `json:"groups"`
	TotalValue     decimal.Decimal           `json:"total_value"`
	SourceLocation string                    `json:"source_location,omitempty"`
	Mismatch       string                    `json:"mismatch,omitempty"`
}

// SubmitTransferRequest is the destination half of a submission; the item
// ids come from the caller's selection, never from the request body.
type SubmitTransferRequest struct {
	ToLocation       string `json:"to_location"`
	ToSchoolID       *int64 `json:"to_school_id,omitempty"`
	ReceivedByUserID *int64 `json:"received_by_user_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	IsTransfer       bool   `json:"is_transfer"`
}

// TransferResult reports a completed submission.
type TransferResult struct {
	Filename         string `json:"filename"`
	Document         []byte `json:"-"`
	Message          string `json:"message"`
	TransferredCount int    `json:"transferred_count"`
}

// TransferService hosts one transfer workflow per user: the current filter
// criteria, the selection scoped to them, and the submission itself.
type TransferService interface {
	SetCriteria(rc inventory.RoleContext, criteria inventory.FilterCriteria) inventory.FilterCriteria
	Toggle(rc inventory.RoleContext, itemID int64)
	ToggleAll(rc inventory.RoleContext)
	ClearSelection(rc inventory.RoleContext)
	Preview(rc inventory.RoleContext) *TransferPreview
	Submit(ctx context.Context, rc inventory.RoleContext, req SubmitTransferRequest) (*TransferResult, error)
	CloseWorkflow(rc inventory.RoleContext)
}

// transferWorkflow is the per-user state machine instance.
type transferWorkflow struct {
	mu        sync.Mutex
	criteria  inventory.FilterCriteria
	selection *inventory.Selection
	// submitting is the duplicate-submission guard for this workflow.
	submitting atomic.Bool
	// closed marks an abandoned workflow; a submission resolving after
	// close must not mutate any shared state.
	closed atomic.Bool
}

type transferService struct {
	da     upstream.DataAccess
	store  *cache.Store
	docDir string

	mu        sync.Mutex
	workflows map[int64]*transferWorkflow
}

// NewTransferService wires the transfer workflow host to its collaborators.
func NewTransferService(da upstream.DataAccess, store *cache.Store, docDir string) TransferService {
	return &transferService{
		da:        da,
		store:     store,
		docDir:    docDir,
		workflows: make(map[int64]*transferWorkflow),
	}
}

func (s *transferService) workflow(userID int64) *transferWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.workflows[userID]
	if !ok || wf.closed.Load() {
		wf = &transferWorkflow{selection: inventory.NewSelection()}
		s.workflows[userID] = wf
	}
	return wf
}

// SetCriteria updates the workflow's filter criteria. Any change clears
// the selection so a submission never operates on items that are no longer
// visible. Returns the normalized criteria actually stored.
func (s *transferService) SetCriteria(rc inventory.RoleContext, criteria inventory.FilterCriteria) inventory.FilterCriteria {
	wf := s.workflow(rc.UserID)
	wf.mu.Lock()
	defer wf.mu.Unlock()

	normalized := criteria.Normalize()
	if normalized != wf.criteria {
		wf.criteria = normalized
		wf.selection.Clear()
	}
	return normalized
}

func (s *transferService) visible(wf *transferWorkflow) []models.InventoryItem {
	return inventory.FilterItems(s.store.Items(), wf.criteria)
}

func (s *transferService) Toggle(rc inventory.RoleContext, itemID int64) {
	wf := s.workflow(rc.UserID)
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.selection.Toggle(itemID)
}

func (s *transferService) ToggleAll(rc inventory.RoleContext) {
	wf := s.workflow(rc.UserID)
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.selection.ToggleAll(s.visible(wf))
}

func (s *transferService) ClearSelection(rc inventory.RoleContext) {
	wf := s.workflow(rc.UserID)
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.selection.Clear()
}

// Preview derives the current selection state for display: grouping,
// totals and the homogeneity verdict.
func (s *transferService) Preview(rc inventory.RoleContext) *TransferPreview {
	wf := s.workflow(rc.UserID)
	wf.mu.Lock()
	defer wf.mu.Unlock()

	selected := wf.selection.SelectedItems(s.visible(wf))
	preview := &TransferPreview{
		Items:      selected,
		Groups:     inventory.GroupItems(selected),
		TotalValue: inventory.TotalValue(selected),
	}
	if len(selected) == 0 {
		return preview
	}
	source, err := inventory.SourceLocation(selected)
	if err != nil {
		preview.Mismatch = err.Error()
		return preview
	}
	preview.SourceLocation = source
	return preview
}

// checkTransferPermissions defensively enforces what the option resolver
// already hides from teachers: destinations outside schools and receivers
// other than themselves.
func checkTransferPermissions(rc inventory.RoleContext, req SubmitTransferRequest) error {
	if rc.IsAdmin() {
		return nil
	}
	if req.ToLocation != models.LocationSchool {
		return fmt.Errorf("%w: only administrators may transfer items outside a school", ErrPermissionDenied)
	}
	if req.ReceivedByUserID != nil && *req.ReceivedByUserID != rc.UserID {
		return fmt.Errorf("%w: items may only be received by yourself", ErrPermissionDenied)
	}
	return nil
}

func (s *transferService) Submit(ctx context.Context, rc inventory.RoleContext, req SubmitTransferRequest) (*TransferResult, error) {
	wf := s.workflow(rc.UserID)
	if err := checkTransferPermissions(rc, req); err != nil {
		return nil, err
	}

	if !wf.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer wf.submitting.Store(false)

	wf.mu.Lock()
	selected := wf.selection.SelectedItems(s.visible(wf))
	wf.mu.Unlock()

	transferReq := inventory.TransferRequest{
		ItemIDs:          itemIDs(selected),
		ToLocation:       req.ToLocation,
		ToSchoolID:       req.ToSchoolID,
		ReceivedByUserID: req.ReceivedByUserID,
		Reason:           req.Reason,
		IsTransfer:       req.IsTransfer,
	}
	if err := inventory.ValidateTransfer(selected, transferReq); err != nil {
		return nil, err
	}

	mode := "report"
	purpose := documents.PurposeTransferReport
	if req.IsTransfer {
		mode = "transfer"
		purpose = documents.PurposeTransferReceipt
	}

	data, err := s.da.TransferReceipt(ctx, transferReq)
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}
	metrics.TransfersTotal.WithLabelValues(mode, "ok").Inc()

	// The workflow may have been abandoned while the request was in
	// flight; a late resolution is dropped without touching shared state.
	if wf.closed.Load() {
		return nil, ErrWorkflowClosed
	}

	name, err := documents.Save(s.docDir, purpose, data)
	if err != nil {
		return nil, err
	}

	result := &TransferResult{
		Filename:         name,
		Document:         data,
		TransferredCount: len(selected),
	}

	if !req.IsTransfer {
		result.Message = fmt.Sprintf("Report generated for %d items", len(selected))
		return result, nil
	}

	// Side effects only after the backend confirmed the relocation.
	wf.mu.Lock()
	wf.selection.Clear()
	wf.mu.Unlock()
	utils.LogError(s.store.RefetchItems(ctx), "Refetch items after transfer failed")
	utils.LogError(s.store.RefetchSummary(ctx), "Refetch summary after transfer failed")

	if req.ReceivedByUserID != nil {
		result.Message = fmt.Sprintf("Transferred %d items; all items are now assigned to %s",
			len(selected), s.userName(*req.ReceivedByUserID))
	} else {
		result.Message = fmt.Sprintf("Transferred %d items", len(selected))
	}
	return result, nil
}

// CloseWorkflow abandons the user's workflow; in-flight submissions
// resolving afterwards are ignored.
func (s *transferService) CloseWorkflow(rc inventory.RoleContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf, ok := s.workflows[rc.UserID]; ok {
		wf.closed.Store(true)
		delete(s.workflows, rc.UserID)
	}
}

func (s *transferService) userName(userID int64) string {
	for _, u := range s.store.Users() {
		if u.ID == userID {
			return u.Name
		}
	}
	return fmt.Sprintf("user %d", userID)
}

func itemIDs(items []models.InventoryItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
