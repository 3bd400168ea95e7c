package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"school_ops_backend/internal/models"
)

func TestSourceLocationHomogeneityGate(t *testing.T) {
	mixed := []models.InventoryItem{
		schoolItem(1, "Laptop", 1, "A"),
		schoolItem(2, "Laptop", 2, "B"),
	}
	if _, err := SourceLocation(mixed); !errors.Is(err, ErrLocationMismatch) {
		t.Fatalf("expected location mismatch, got %v", err)
	}

	same := []models.InventoryItem{
		schoolItem(1, "Laptop", 1, "A"),
		schoolItem(2, "Chair", 1, "A"),
	}
	source, err := SourceLocation(same)
	if err != nil {
		t.Fatalf("expected homogeneous selection to pass, got %v", err)
	}
	if source != "School/A" {
		t.Errorf("expected source School/A, got %q", source)
	}
}

func TestSourceLocationEmptySelection(t *testing.T) {
	if _, err := SourceLocation(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected empty-selection error, got %v", err)
	}
}

func TestEffectiveLocationTreatsEmptyAsUnassigned(t *testing.T) {
	item := models.InventoryItem{ID: 1, Name: "Old record"}
	if got := EffectiveLocation(&item); got != models.LocationUnassigned {
		t.Errorf("expected Unassigned, got %q", got)
	}
}

func TestValidateTransferDestinationRules(t *testing.T) {
	items := []models.InventoryItem{hqItem(1, "Chair"), hqItem(2, "Desk")}

	cases := []struct {
		name string
		req  TransferRequest
		want error
	}{
		{"missing destination", TransferRequest{}, ErrMissingDestination},
		{"unknown destination", TransferRequest{ToLocation: "Depot"}, ErrInvalidDestination},
		{"school without school id", TransferRequest{ToLocation: models.LocationSchool}, ErrMissingDestSchool},
		{"school id outside school", TransferRequest{ToLocation: models.LocationHeadquarters, ToSchoolID: ptr(int64(2))}, ErrDestSchoolForbidden},
		{"valid to school", TransferRequest{ToLocation: models.LocationSchool, ToSchoolID: ptr(int64(2)), IsTransfer: true}, nil},
		{"valid to headquarters", TransferRequest{ToLocation: models.LocationHeadquarters}, nil},
	}
	for _, tc := range cases {
		err := ValidateTransfer(items, tc.req)
		if tc.want == nil && err != nil {
			t.Errorf("%s: expected no error, got %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateTransferBlocksMixedSelection(t *testing.T) {
	mixed := []models.InventoryItem{
		schoolItem(1, "Laptop", 1, "A"),
		hqItem(2, "Chair"),
	}
	req := TransferRequest{ToLocation: models.LocationHeadquarters}
	if err := ValidateTransfer(mixed, req); !errors.Is(err, ErrLocationMismatch) {
		t.Fatalf("expected blocking mismatch error, got %v", err)
	}
}

func TestGroupItems(t *testing.T) {
	laptop1 := schoolItem(1, "Laptop", 1, "A")
	laptop1.Category = &models.Category{ID: 3, Name: "Electronics"}
	laptop1.PurchaseValue = value(50000)

	laptop2 := schoolItem(2, "Laptop", 1, "A")
	laptop2.Category = &models.Category{ID: 3, Name: "Electronics"}
	laptop2.PurchaseValue = value(52000)

	chair := schoolItem(3, "Chair", 1, "A")
	chair.PurchaseValue = value(3000)

	items := []models.InventoryItem{laptop1, laptop2, chair}
	groups := GroupItems(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Laptop" || groups[0].Count != 2 {
		t.Errorf("unexpected first group: %+v", groups[0])
	}
	if groups[0].TotalValue.Cmp(value(102000)) != 0 {
		t.Errorf("expected laptop group total 102000, got %s", groups[0].TotalValue)
	}
	if groups[1].Name != "Chair" || groups[1].Count != 1 {
		t.Errorf("unexpected second group: %+v", groups[1])
	}
}

func TestGroupTotalsMatchUngroupedTotal(t *testing.T) {
	items := []models.InventoryItem{
		schoolItem(1, "Laptop", 1, "A"),
		schoolItem(2, "Laptop", 1, "A"),
		schoolItem(3, "Chair", 1, "A"),
		schoolItem(4, "Desk", 1, "A"),
	}
	values := []int64{50000, 52000, 3000, 7500}
	for i := range items {
		items[i].PurchaseValue = value(values[i])
	}

	grouped := decimal.Zero
	for _, g := range GroupItems(items) {
		grouped = grouped.Add(g.TotalValue)
	}
	if grouped.Cmp(TotalValue(items)) != 0 {
		t.Fatalf("group total %s != ungrouped total %s", grouped, TotalValue(items))
	}
}
