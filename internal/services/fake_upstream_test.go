package services

import (
	"context"
	"sync"

	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/models"
	"school_ops_backend/internal/upstream"
)

// fakeDataAccess is an in-memory upstream.DataAccess recording every call,
// for driving the workflow services without a backend.
type fakeDataAccess struct {
	mu sync.Mutex

	items      []models.InventoryItem
	categories []models.Category
	schools    []models.School
	users      []models.AppUser
	summary    models.InventorySummary

	err error // injected failure for all mutations

	createCalls   int
	bulkCalls     int
	lastQuantity  int
	lastPayload   upstream.ItemPayload
	updateCalls   int
	deleteCalls   int
	transferCalls int
	lastTransfer  inventory.TransferRequest

	// When set, mutations signal started (once) and then wait for unblock.
	started chan struct{}
	unblock chan struct{}
}

var _ upstream.DataAccess = (*fakeDataAccess)(nil)

func (f *fakeDataAccess) waitIfBlocked() {
	f.mu.Lock()
	started, unblock := f.started, f.unblock
	f.started = nil
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if unblock != nil {
		<-unblock
	}
}

func (f *fakeDataAccess) ListItems(context.Context, upstream.ItemQuery) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, nil
}

func (f *fakeDataAccess) CreateItem(_ context.Context, p upstream.ItemPayload) (*models.InventoryItem, error) {
	f.waitIfBlocked()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastPayload = p
	if f.err != nil {
		return nil, f.err
	}
	return &models.InventoryItem{ID: 1000, Name: p.Name, Location: p.Location, Status: p.Status}, nil
}

func (f *fakeDataAccess) BulkCreateItems(_ context.Context, _ upstream.ItemPayload, quantity int) (int, error) {
	f.waitIfBlocked()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	f.lastQuantity = quantity
	if f.err != nil {
		return 0, f.err
	}
	return quantity, nil
}

func (f *fakeDataAccess) UpdateItem(_ context.Context, id int64, p upstream.ItemPayload) (*models.InventoryItem, error) {
	f.waitIfBlocked()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastPayload = p
	if f.err != nil {
		return nil, f.err
	}
	return &models.InventoryItem{ID: id, Name: p.Name, Location: p.Location, Status: p.Status}, nil
}

func (f *fakeDataAccess) DeleteItem(context.Context, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.err
}

func (f *fakeDataAccess) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, nil
}

func (f *fakeDataAccess) CreateCategory(_ context.Context, c models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c.ID = 500
	return &c, nil
}

func (f *fakeDataAccess) UpdateCategory(_ context.Context, id int64, c models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c.ID = id
	return &c, nil
}

func (f *fakeDataAccess) DeleteCategory(context.Context, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.err
}

func (f *fakeDataAccess) ListSchools(context.Context) ([]models.School, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schools, nil
}

func (f *fakeDataAccess) ListAssignableUsers(context.Context) ([]models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, nil
}

func (f *fakeDataAccess) ListEmployees(context.Context) ([]models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, nil
}

func (f *fakeDataAccess) GetSummary(context.Context) (*models.InventorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := f.summary
	return &summary, nil
}

func (f *fakeDataAccess) TransferReceipt(_ context.Context, req inventory.TransferRequest) ([]byte, error) {
	f.waitIfBlocked()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transferCalls++
	f.lastTransfer = req
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 receipt"), nil
}

func (f *fakeDataAccess) InventoryListReport(context.Context, upstream.ReportRequest) ([]byte, error) {
	return []byte("%PDF-1.7 report"), nil
}

func (f *fakeDataAccess) ItemDetailReport(context.Context, int64) ([]byte, error) {
	return []byte("%PDF-1.7 item"), nil
}
