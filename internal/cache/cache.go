// Package cache holds the service's snapshot of the backend's canonical
// collections. Workflows read from it and ask for refetches; they never
// write into it directly, and refetches happen only after a mutation has
// been confirmed by the backend.
package cache

import (
	"context"
	"sync"

	"school_ops_backend/internal/models"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// Store caches items, categories, schools, assignable users and the
// summary. Safe for concurrent use.
type Store struct {
	da upstream.DataAccess

	mu         sync.RWMutex
	items      []models.InventoryItem
	categories []models.Category
	schools    []models.School
	users      []models.AppUser
	summary    *models.InventorySummary
}

// NewStore creates an empty store backed by the given data access.
func NewStore(da upstream.DataAccess) *Store {
	return &Store{da: da}
}

// WarmUp fetches every collection once. Failures are logged and left for
// the per-collection refetches to repair; an unreachable backend at boot
// must not prevent the service from starting.
func (s *Store) WarmUp(ctx context.Context) {
	if err := s.RefetchItems(ctx); err != nil {
		utils.LogError(err, "Warm-up: items fetch failed")
	}
	if err := s.RefetchCategories(ctx); err != nil {
		utils.LogError(err, "Warm-up: categories fetch failed")
	}
	if err := s.RefetchSchools(ctx); err != nil {
		utils.LogError(err, "Warm-up: schools fetch failed")
	}
	if err := s.RefetchUsers(ctx); err != nil {
		utils.LogError(err, "Warm-up: users fetch failed")
	}
	if err := s.RefetchSummary(ctx); err != nil {
		utils.LogError(err, "Warm-up: summary fetch failed")
	}
}

// Items returns the cached item collection.
func (s *Store) Items() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Categories returns the cached category collection.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Schools returns the cached school collection, already role-scoped by the
// backend.
func (s *Store) Schools() []models.School {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schools
}

// Users returns the cached assignable user collection.
func (s *Store) Users() []models.AppUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

// Summary returns the cached dashboard summary, or nil before the first
// successful fetch.
func (s *Store) Summary() *models.InventorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// RefetchItems reloads the item collection. The snapshot is only replaced
// when the fetch succeeds.
func (s *Store) RefetchItems(ctx context.Context) error {
	items, err := s.da.ListItems(ctx, upstream.ItemQuery{})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// RefetchCategories reloads the category collection.
func (s *Store) RefetchCategories(ctx context.Context) error {
	categories, err := s.da.ListCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// RefetchSchools reloads the school collection.
func (s *Store) RefetchSchools(ctx context.Context) error {
	schools, err := s.da.ListSchools(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.schools = schools
	s.mu.Unlock()
	return nil
}

// RefetchUsers reloads the assignable user collection.
func (s *Store) RefetchUsers(ctx context.Context) error {
	users, err := s.da.ListAssignableUsers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// RefetchSummary reloads the dashboard summary.
func (s *Store) RefetchSummary(ctx context.Context) error {
	summary, err := s.da.GetSummary(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return nil
}
