package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"school_ops_backend/internal/models"
)

// Form limits.
const (
	NameMinLen = 2
	NameMaxLen = 100
	// MaxBulkQuantity caps how many identical units one bulk create may
	// produce.
	MaxBulkQuantity = 500
)

// MaxPurchaseValue is the sanity ceiling for a single item's value.
var MaxPurchaseValue = decimal.NewFromInt(10_000_000)

// FormState tracks where an add/edit workflow currently is.
type FormState int

const (
	FormIdle FormState = iota
	FormEditing
	FormValidating
	FormSubmitting
	FormSucceeded
	FormFailed
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormEditing:
		return "editing"
	case FormValidating:
		return "validating"
	case FormSubmitting:
		return "submitting"
	case FormSucceeded:
		return "succeeded"
	case FormFailed:
		return "failed"
	}
	return "unknown"
}

// ItemForm is the add/edit form state. Quantity above one switches the add
// workflow into bulk mode.
type ItemForm struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *int64          `json:"category_id"`
	Location      string          `json:"location"`
	SchoolID      *int64          `json:"school_id"`
	Status        string          `json:"status"`
	AssignedToID  *int64          `json:"assigned_to"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	PurchaseDate  *time.Time      `json:"purchase_date"`
	SerialNumber  string          `json:"serial_number"`
	Quantity      int             `json:"quantity"`
}

// The field-coupling rules below are deterministic transitions applied on
// every field change, not validation-time fixups. Each returns the next
// form state without touching the receiver.

// ApplyLocationChange sets the location and clears the school whenever the
// location moves away from School, keeping the location/school coupling
// intact.
func (f ItemForm) ApplyLocationChange(location string) ItemForm {
	f.Location = location
	if location != models.LocationSchool {
		f.SchoolID = nil
	}
	return f
}

// ApplyAssigneeChange sets the assignee. A non-empty assignee forces the
// status to Assigned.
func (f ItemForm) ApplyAssigneeChange(userID *int64) ItemForm {
	f.AssignedToID = userID
	if userID != nil && f.Status != models.StatusAssigned {
		f.Status = models.StatusAssigned
	}
	return f
}

// ApplyCategoryChange sets the category. Categorizing an item says nothing
// about custody, so the status is deliberately left alone; only an
// assignee change moves it to Assigned.
func (f ItemForm) ApplyCategoryChange(categoryID *int64) ItemForm {
	f.CategoryID = categoryID
	return f
}

// FieldErrors maps form field names to human-readable messages.
type FieldErrors map[string]string

// Validate checks the form ahead of submission. A nil result means the
// form may be submitted.
func (f ItemForm) Validate() FieldErrors {
	errs := FieldErrors{}

	// Length limits are in characters, not bytes.
	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs["name"] = "name is required"
	case utf8.RuneCountInString(name) < NameMinLen:
		errs["name"] = "name must be at least 2 characters"
	case utf8.RuneCountInString(name) > NameMaxLen:
		errs["name"] = "name must be at most 100 characters"
	}

	switch {
	case f.PurchaseValue.IsZero():
		// A zero decimal means the value was never entered.
		errs["purchase_value"] = "purchase value is required"
	case !f.PurchaseValue.IsPositive():
		errs["purchase_value"] = "purchase value must be positive"
	case f.PurchaseValue.GreaterThan(MaxPurchaseValue):
		errs["purchase_value"] = "purchase value exceeds the allowed maximum"
	}

	if f.Location == "" {
		errs["location"] = "location is required"
	} else if !models.ValidLocation(f.Location) {
		errs["location"] = "unknown location"
	}

	if f.Location == models.LocationSchool && f.SchoolID == nil {
		errs["school_id"] = "school is required for items placed at a school"
	}
	if f.Location != models.LocationSchool && f.SchoolID != nil {
		errs["school_id"] = "school must be empty unless the location is School"
	}

	if !models.ValidStatus(f.Status) {
		errs["status"] = "unknown status"
	}

	if f.Quantity < 0 || f.Quantity > MaxBulkQuantity {
		errs["quantity"] = "quantity must be between 1 and 500"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsBulk reports whether submitting the form should create multiple units.
func (f ItemForm) IsBulk() bool {
	return f.Quantity > 1
}
