package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"school_ops_backend/internal/models"
)

// Transfer validation errors.
var (
	ErrEmptySelection      = errors.New("no items selected for transfer")
	ErrLocationMismatch    = errors.New("selected items are not all at the same location")
	ErrMissingDestination  = errors.New("destination location is required")
	ErrMissingDestSchool   = errors.New("destination school is required when transferring to a school")
	ErrInvalidDestination  = errors.New("unknown destination location")
	ErrDestSchoolForbidden = errors.New("destination school must be empty unless transferring to a school")
)

// TransferRequest is the payload for both submission modes: a real
// transfer (IsTransfer true, items relocated and a receipt returned) and a
// report-only run (no mutation, report document returned).
type TransferRequest struct {
	ItemIDs          []int64 `json:"item_ids"`
	ToLocation       string  `json:"to_location"`
	ToSchoolID       *int64  `json:"to_school_id,omitempty"`
	ReceivedByUserID *int64  `json:"received_by_user_id,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	IsTransfer       bool    `json:"is_transfer"`
}

// EffectiveLocation is an item's location for homogeneity purposes: the
// location value, qualified with the school name when placed at a school,
// so items at two different schools never count as co-located.
func EffectiveLocation(item *models.InventoryItem) string {
	if item.Location == models.LocationSchool {
		return models.LocationSchool + "/" + item.SchoolName()
	}
	if item.Location == "" {
		return models.LocationUnassigned
	}
	return item.Location
}

// SourceLocation returns the shared effective location of the selected
// items. ErrLocationMismatch is a blocking condition: a mixed selection
// may not proceed to destination selection at all.
func SourceLocation(items []models.InventoryItem) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptySelection
	}
	source := EffectiveLocation(&items[0])
	for i := 1; i < len(items); i++ {
		if loc := EffectiveLocation(&items[i]); loc != source {
			return "", fmt.Errorf("%w: %s vs %s", ErrLocationMismatch, source, loc)
		}
	}
	return source, nil
}

// ValidateTransfer checks a submission against the selected items: the
// selection must be non-empty and homogeneous, and the destination must be
// fully specified and internally consistent.
func ValidateTransfer(items []models.InventoryItem, req TransferRequest) error {
	if _, err := SourceLocation(items); err != nil {
		return err
	}
	if req.ToLocation == "" {
		return ErrMissingDestination
	}
	if !models.ValidLocation(req.ToLocation) {
		return ErrInvalidDestination
	}
	if req.ToLocation == models.LocationSchool && req.ToSchoolID == nil {
		return ErrMissingDestSchool
	}
	if req.ToLocation != models.LocationSchool && req.ToSchoolID != nil {
		return ErrDestSchoolForbidden
	}
	return nil
}

// TransferGroup is a display rollup of selected items sharing a name and
// category.
type TransferGroup struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// GroupItems rolls the selection up by (name, category), preserving the
// order in which each pair first appears. The summed value across groups
// always equals the summed value of the ungrouped selection.
func GroupItems(items []models.InventoryItem) []TransferGroup {
	type key struct{ name, category string }
	index := make(map[key]int, len(items))
	groups := make([]TransferGroup, 0, len(items))

	for _, item := range items {
		k := key{item.Name, item.CategoryName()}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, TransferGroup{
				Name:       item.Name,
				Category:   item.CategoryName(),
				TotalValue: decimal.Zero,
			})
		}
		groups[i].Count++
		groups[i].TotalValue = groups[i].TotalValue.Add(item.PurchaseValue)
	}
	return groups
}

// TotalValue sums the purchase value of the given items.
func TotalValue(items []models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PurchaseValue)
	}
	return total
}
