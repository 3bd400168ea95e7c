package inventory

import (
	"sync"

	"school_ops_backend/internal/models"
)

// Selection tracks which items are chosen for a bulk operation. It holds
// raw ids only; callers derive the effective selection by intersecting
// with the currently filtered view, so ids that have scrolled out of view
// are dropped silently.
//
// Safe for concurrent use: several requests from the same session may race
// on it.
type Selection struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

// Toggle flips membership of the given item id.
func (s *Selection) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// ToggleAll clears the selection when it already covers the whole visible
// set, and otherwise selects exactly the visible items. Items outside the
// filtered view are never selected.
func (s *Selection) ToggleAll(visible []models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == len(visible) && len(visible) > 0 {
		s.ids = make(map[int64]struct{})
		return
	}
	s.ids = make(map[int64]struct{}, len(visible))
	for _, item := range visible {
		s.ids[item.ID] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{})
}

// Contains reports whether the item id is selected.
func (s *Selection) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Size returns the number of raw selected ids, including ids no longer
// visible.
func (s *Selection) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// SelectedItems returns the visible items that are selected, in the order
// they appear in the visible list.
func (s *Selection) SelectedItems(visible []models.InventoryItem) []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InventoryItem, 0, len(s.ids))
	for _, item := range visible {
		if _, ok := s.ids[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}
