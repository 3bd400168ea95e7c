package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"school_ops_backend/internal/cache"
	"school_ops_backend/internal/documents"
	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/models"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// CreateItemResult reports the outcome of an add submission. Item is set
// for a single create, CreatedCount for a bulk create.
type CreateItemResult struct {
	Item         *models.InventoryItem `json:"item,omitempty"`
	CreatedCount int                   `json:"created_count"`
}

// InventoryService hosts the item list and the add/edit/delete workflows.
type InventoryService interface {
	VisibleItems(criteria inventory.FilterCriteria) []models.InventoryItem
	CreateItem(ctx context.Context, rc inventory.RoleContext, form inventory.ItemForm, confirmBulk bool) (*CreateItemResult, error)
	UpdateItem(ctx context.Context, rc inventory.RoleContext, itemID int64, form inventory.ItemForm) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, rc inventory.RoleContext, itemID int64) error
	Summary() (*models.InventorySummary, error)

	LocationOptions(rc inventory.RoleContext, forFilter bool) []string
	AssignableUsers(rc inventory.RoleContext) []models.AppUser
	Schools(rc inventory.RoleContext) []models.School

	ItemDetailReport(ctx context.Context, itemID int64) (string, []byte, error)
	InventoryListReport(ctx context.Context, criteria inventory.FilterCriteria, groupItems bool) (string, []byte, error)
}

type inventoryService struct {
	da    upstream.DataAccess
	store *cache.Store
	// docDir is where generated documents are saved.
	docDir string

	mu sync.Mutex
	// submitting guards against duplicate concurrent mutations, one flag
	// per caller. Mutating calls carry no idempotency key, so this flag is
	// the only duplicate-prevention mechanism; scoping it per user keeps
	// unrelated callers from rejecting each other.
	submitting map[int64]*atomic.Bool
}

// NewInventoryService wires the workflow host to its collaborators.
func NewInventoryService(da upstream.DataAccess, store *cache.Store, docDir string) InventoryService {
	return &inventoryService{
		da:         da,
		store:      store,
		docDir:     docDir,
		submitting: make(map[int64]*atomic.Bool),
	}
}

// guard returns the caller's duplicate-submission flag.
func (s *inventoryService) guard(userID int64) *atomic.Bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	flag, ok := s.submitting[userID]
	if !ok {
		flag = &atomic.Bool{}
		s.submitting[userID] = flag
	}
	return flag
}

// VisibleItems applies the filter engine to the cached item collection.
func (s *inventoryService) VisibleItems(criteria inventory.FilterCriteria) []models.InventoryItem {
	return inventory.FilterItems(s.store.Items(), criteria.Normalize())
}

// checkFormPermissions defensively rejects actions the UI should already
// have hidden: teachers may only place items at a school and may only
// assign items to themselves.
func checkFormPermissions(rc inventory.RoleContext, form inventory.ItemForm) error {
	if rc.IsAdmin() {
		return nil
	}
	if form.Location != "" && form.Location != models.LocationSchool {
		return fmt.Errorf("%w: only administrators may place items outside a school", ErrPermissionDenied)
	}
	if form.AssignedToID != nil && *form.AssignedToID != rc.UserID {
		return fmt.Errorf("%w: items may only be assigned to yourself", ErrPermissionDenied)
	}
	return nil
}

func (s *inventoryService) CreateItem(ctx context.Context, rc inventory.RoleContext, form inventory.ItemForm, confirmBulk bool) (*CreateItemResult, error) {
	if err := checkFormPermissions(rc, form); err != nil {
		return nil, err
	}
	// A bound payload may carry an assignee with a stale status; re-apply
	// the coupling so a non-empty assignee always submits as Assigned.
	form = form.ApplyAssigneeChange(form.AssignedToID)
	if form.Quantity == 0 {
		form.Quantity = 1
	}
	if errs := form.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	// Bulk creation needs a second, explicit confirmation before anything
	// is sent upstream.
	if form.IsBulk() && !confirmBulk {
		return nil, ErrBulkConfirmationRequired
	}

	guard := s.guard(rc.UserID)
	if !guard.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer guard.Store(false)

	result := &CreateItemResult{}
	if form.IsBulk() {
		count, err := s.da.BulkCreateItems(ctx, payloadFromForm(form), form.Quantity)
		if err != nil {
			return nil, err
		}
		result.CreatedCount = count
	} else {
		item, err := s.da.CreateItem(ctx, payloadFromForm(form))
		if err != nil {
			return nil, err
		}
		result.Item = item
		result.CreatedCount = 1
	}

	s.refetchAfterItemMutation(ctx)
	return result, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, rc inventory.RoleContext, itemID int64, form inventory.ItemForm) (*models.InventoryItem, error) {
	if err := checkFormPermissions(rc, form); err != nil {
		return nil, err
	}
	form = form.ApplyAssigneeChange(form.AssignedToID)
	form.Quantity = 1 // editing never multiplies
	if errs := form.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	guard := s.guard(rc.UserID)
	if !guard.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer guard.Store(false)

	item, err := s.da.UpdateItem(ctx, itemID, payloadFromForm(form))
	if err != nil {
		return nil, err
	}

	s.refetchAfterItemMutation(ctx)
	return item, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, rc inventory.RoleContext, itemID int64) error {
	if !rc.Role.CanDelete() {
		return fmt.Errorf("%w: only administrators may delete items", ErrPermissionDenied)
	}

	guard := s.guard(rc.UserID)
	if !guard.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer guard.Store(false)

	if err := s.da.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	s.refetchAfterItemMutation(ctx)
	return nil
}

// refetchAfterItemMutation reloads the collections an item mutation can
// touch. Runs only after the backend confirmed the mutation; refetch
// failures are logged and the stale snapshot stays in place until the next
// successful reload.
func (s *inventoryService) refetchAfterItemMutation(ctx context.Context) {
	utils.LogError(s.store.RefetchItems(ctx), "Refetch items after mutation failed")
	utils.LogError(s.store.RefetchCategories(ctx), "Refetch categories after mutation failed")
	utils.LogError(s.store.RefetchSummary(ctx), "Refetch summary after mutation failed")
}

func (s *inventoryService) Summary() (*models.InventorySummary, error) {
	summary := s.store.Summary()
	if summary == nil {
		return nil, ErrSummaryUnavailable
	}
	return summary, nil
}

func (s *inventoryService) LocationOptions(rc inventory.RoleContext, forFilter bool) []string {
	return inventory.LocationOptions(rc, forFilter)
}

func (s *inventoryService) AssignableUsers(rc inventory.RoleContext) []models.AppUser {
	return inventory.UserOptions(rc, s.store.Users())
}

func (s *inventoryService) Schools(rc inventory.RoleContext) []models.School {
	return inventory.SchoolOptions(rc, s.store.Schools())
}

func (s *inventoryService) ItemDetailReport(ctx context.Context, itemID int64) (string, []byte, error) {
	data, err := s.da.ItemDetailReport(ctx, itemID)
	if err != nil {
		return "", nil, err
	}
	name, err := documents.Save(s.docDir, documents.PurposeItemReport, data)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

func (s *inventoryService) InventoryListReport(ctx context.Context, criteria inventory.FilterCriteria, groupItems bool) (string, []byte, error) {
	data, err := s.da.InventoryListReport(ctx, upstream.ReportRequest{
		Filters:    criteria.Normalize(),
		GroupItems: groupItems,
	})
	if err != nil {
		return "", nil, err
	}
	name, err := documents.Save(s.docDir, documents.PurposeInventoryReport, data)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

// payloadFromForm maps the validated form onto the upstream payload.
func payloadFromForm(form inventory.ItemForm) upstream.ItemPayload {
	return upstream.ItemPayload{
		Name:          form.Name,
		Description:   utils.NewNullString(form.Description),
		CategoryID:    form.CategoryID,
		Location:      form.Location,
		SchoolID:      form.SchoolID,
		Status:        form.Status,
		AssignedToID:  form.AssignedToID,
		PurchaseValue: form.PurchaseValue.String(),
		PurchaseDate:  form.PurchaseDate,
		SerialNumber:  utils.NewNullString(form.SerialNumber),
	}
}
