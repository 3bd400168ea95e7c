package inventory

import (
	"testing"

	"school_ops_backend/internal/models"
)

func TestLocationOptionsAdmin(t *testing.T) {
	rc := RoleContext{Role: RoleAdmin, UserID: 1}

	got := LocationOptions(rc, true)
	want := []string{FilterAll, models.LocationSchool, models.LocationHeadquarters, models.LocationUnassigned}
	if len(got) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLocationOptionsTeacher(t *testing.T) {
	rc := RoleContext{Role: RoleTeacher, UserID: 7}

	got := LocationOptions(rc, false)
	if len(got) != 1 || got[0] != models.LocationSchool {
		t.Fatalf("expected exactly [School], got %v", got)
	}
}

func TestUserOptionsTeacherSelfOnly(t *testing.T) {
	rc := RoleContext{Role: RoleTeacher, UserID: 7}
	users := []models.AppUser{
		{ID: 1, Name: "Alice"},
		{ID: 7, Name: "Bob"},
		{ID: 12, Name: "Carol"},
	}

	got := UserOptions(rc, users)
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("expected exactly [user 7], got %v", got)
	}
}

func TestUserOptionsAdminFullList(t *testing.T) {
	rc := RoleContext{Role: RoleAdmin, UserID: 1}
	users := []models.AppUser{{ID: 1}, {ID: 2}, {ID: 3}}

	if got := UserOptions(rc, users); len(got) != 3 {
		t.Fatalf("expected full list, got %d entries", len(got))
	}
}

func TestRoleCapabilities(t *testing.T) {
	if RoleTeacher.CanDelete() || RoleTeacher.CanManageCategories() || RoleTeacher.CanAssignOthers() {
		t.Error("teacher must not hold admin capabilities")
	}
	if !RoleAdmin.CanDelete() || !RoleAdmin.CanManageCategories() || !RoleAdmin.CanAssignOthers() {
		t.Error("admin must hold all capabilities")
	}
}
