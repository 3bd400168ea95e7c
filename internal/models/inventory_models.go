package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item locations.
const (
	LocationSchool       = "School"
	LocationHeadquarters = "Headquarters"
	LocationUnassigned   = "Unassigned"
)

// Item statuses.
const (
	StatusAvailable = "Available"
	StatusAssigned  = "Assigned"
	StatusDamaged   = "Damaged"
	StatusLost      = "Lost"
	StatusDisposed  = "Disposed"
)

// ValidLocation reports whether loc is one of the three item locations.
func ValidLocation(loc string) bool {
	switch loc {
	case LocationSchool, LocationHeadquarters, LocationUnassigned:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the five item statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusAssigned, StatusDamaged, StatusLost, StatusDisposed:
		return true
	}
	return false
}

// Category groups inventory items. ItemCount is derived server-side; a
// category cannot be deleted while it is non-zero.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	ItemCount   int     `json:"item_count"`
}

// School is a site an item can be placed at.
type School struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppUser is a person an item can be assigned to.
type AppUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InventoryItem is the central inventory entity.
//
// Location and school are coupled: location == School iff SchoolID is set.
// A non-empty assignee implies status Assigned.
type InventoryItem struct {
	ID            int64           `json:"id"`
	UniqueID      string          `json:"unique_id"`
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	Category      *Category       `json:"category,omitempty"`
	Location      string          `json:"location"`
	SchoolID      *int64          `json:"school_id,omitempty"`
	School        *School         `json:"school,omitempty"`
	Status        string          `json:"status"`
	AssignedToID  *int64          `json:"assigned_to,omitempty"`
	AssignedTo    *AppUser        `json:"assigned_to_user,omitempty"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	PurchaseDate  *time.Time      `json:"purchase_date,omitempty"`
	SerialNumber  *string         `json:"serial_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryRef returns the item's category id, tolerating payloads that
// carry either the flat category_id field or only the nested category.
func (i *InventoryItem) CategoryRef() (int64, bool) {
	if i.CategoryID != nil {
		return *i.CategoryID, true
	}
	if i.Category != nil {
		return i.Category.ID, true
	}
	return 0, false
}

// CategoryName returns the nested category name, or empty when the item is
// uncategorized.
func (i *InventoryItem) CategoryName() string {
	if i.Category != nil {
		return i.Category.Name
	}
	return ""
}

// SchoolName returns the nested school name, or empty when not placed at a
// school.
func (i *InventoryItem) SchoolName() string {
	if i.School != nil {
		return i.School.Name
	}
	return ""
}

// InventorySummary is the dashboard rollup fetched from the backend.
type InventorySummary struct {
	TotalItems    int             `json:"total_items"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ByStatus      map[string]int  `json:"by_status"`
	ByLocation    map[string]int  `json:"by_location"`
	Uncategorized int             `json:"uncategorized"`
}
