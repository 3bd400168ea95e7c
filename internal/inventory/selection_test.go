package inventory

import (
	"testing"

	"school_ops_backend/internal/models"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	if !s.Contains(1) {
		t.Fatal("expected item 1 selected after toggle")
	}
	s.Toggle(1)
	if s.Contains(1) {
		t.Fatal("expected item 1 deselected after second toggle")
	}
}

func TestSelectionToggleAllSymmetry(t *testing.T) {
	visible := []models.InventoryItem{hqItem(1, "A"), hqItem(2, "B"), hqItem(3, "C")}

	s := NewSelection()
	s.ToggleAll(visible)
	if s.Size() != 3 {
		t.Fatalf("expected full selection, got %d", s.Size())
	}
	s.ToggleAll(visible)
	if s.Size() != 0 {
		t.Fatalf("expected empty selection after second toggle-all, got %d", s.Size())
	}
}

func TestSelectionToggleAllFromPartial(t *testing.T) {
	visible := []models.InventoryItem{hqItem(1, "A"), hqItem(2, "B")}

	s := NewSelection()
	s.Toggle(1)
	s.ToggleAll(visible)
	if s.Size() != 2 {
		t.Fatalf("expected partial selection expanded to full, got %d", s.Size())
	}
}

func TestSelectedItemsIntersectsWithVisible(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	s.Toggle(2)
	s.Toggle(99) // no longer visible

	visible := []models.InventoryItem{hqItem(2, "B"), hqItem(1, "A")}
	got := s.SelectedItems(visible)
	if len(got) != 2 {
		t.Fatalf("expected 2 selected visible items, got %d", len(got))
	}
	// Visible-list order, not selection order.
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("expected order [2 1], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	s.Clear()
	if s.Size() != 0 {
		t.Fatalf("expected empty selection after clear, got %d", s.Size())
	}
}
