package inventory

import (
	"strconv"
	"strings"

	"school_ops_backend/internal/models"
)

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// AssignedToNone is the sentinel value matching items with no assignee.
const AssignedToNone = "unassigned"

// FilterCriteria is the ephemeral filter state for the item list. Empty
// fields impose no constraint; populated fields combine with logical AND.
type FilterCriteria struct {
	Location   string `json:"location" form:"location"`
	SchoolID   int64  `json:"school_id" form:"school_id"`
	CategoryID int64  `json:"category_id" form:"category_id"`
	Status     string `json:"status" form:"status"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"` // "unassigned" or a user id
	Search     string `json:"search" form:"search"`
}

// IsZero reports whether no criterion is populated.
func (c FilterCriteria) IsZero() bool {
	return c == FilterCriteria{}
}

// Normalize applies the criteria's own consistency rule: a school
// constraint only makes sense while filtering on the School location, so
// moving the location away from School resets it. Returns the adjusted
// criteria; the filter itself never mutates its input.
func (c FilterCriteria) Normalize() FilterCriteria {
	if c.Location != models.LocationSchool {
		c.SchoolID = 0
	}
	return c
}

// FilterItems returns the subset of items matching every populated
// criterion. The relative ordering of the input is preserved and the input
// slice is never modified.
func FilterItems(items []models.InventoryItem, c FilterCriteria) []models.InventoryItem {
	if c.IsZero() {
		out := make([]models.InventoryItem, len(items))
		copy(out, items)
		return out
	}

	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if matchesCriteria(&item, c, search) {
			out = append(out, item)
		}
	}
	return out
}

func matchesCriteria(item *models.InventoryItem, c FilterCriteria, search string) bool {
	if c.Location != "" && !matchesLocation(item, c.Location) {
		return false
	}
	if c.SchoolID != 0 {
		if item.SchoolID == nil || *item.SchoolID != c.SchoolID {
			return false
		}
	}
	if c.CategoryID != 0 {
		catID, ok := item.CategoryRef()
		if !ok || catID != c.CategoryID {
			return false
		}
	}
	if c.Status != "" && item.Status != c.Status {
		return false
	}
	if c.AssignedTo != "" && !matchesAssignee(item, c.AssignedTo) {
		return false
	}
	if search != "" && !matchesSearch(item, search) {
		return false
	}
	return true
}

// matchesLocation treats an empty location on the item as Unassigned, so
// legacy records without a location still show up under that filter.
func matchesLocation(item *models.InventoryItem, location string) bool {
	if item.Location == location {
		return true
	}
	return location == models.LocationUnassigned && item.Location == ""
}

func matchesAssignee(item *models.InventoryItem, assignedTo string) bool {
	if assignedTo == AssignedToNone {
		return item.AssignedToID == nil
	}
	if item.AssignedToID == nil {
		return false
	}
	userID, err := parseID(assignedTo)
	if err != nil {
		return false
	}
	return *item.AssignedToID == userID
}

// matchesSearch matches the term against name, serial number and the
// display code; any single hit is enough.
func matchesSearch(item *models.InventoryItem, search string) bool {
	if strings.Contains(strings.ToLower(item.Name), search) {
		return true
	}
	if item.SerialNumber != nil && strings.Contains(strings.ToLower(*item.SerialNumber), search) {
		return true
	}
	return strings.Contains(strings.ToLower(item.UniqueID), search)
}
