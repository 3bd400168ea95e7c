package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"school_ops_backend/internal/cache"
	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/models"
)

func fleetAt(schoolID int64, schoolName string) []models.InventoryItem {
	school := models.School{ID: schoolID, Name: schoolName}
	items := make([]models.InventoryItem, 0, 3)
	for i, name := range []string{"Laptop", "Laptop", "Chair"} {
		id := int64(i + 1)
		sid := schoolID
		items = append(items, models.InventoryItem{
			ID:       id,
			Name:     name,
			Location: models.LocationSchool,
			SchoolID: &sid,
			School:   &school,
			Status:   models.StatusAvailable,
		})
	}
	return items
}

func newTransferService(t *testing.T, fake *fakeDataAccess) TransferService {
	t.Helper()
	store := cache.NewStore(fake)
	store.WarmUp(context.Background())
	return NewTransferService(fake, store, t.TempDir())
}

func TestTransferSuccessClearsSelectionAndReportsAssignee(t *testing.T) {
	fake := &fakeDataAccess{
		items: fleetAt(1, "Greenfield"),
		users: []models.AppUser{{ID: 7, Name: "Bob"}},
	}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)
	if preview := svc.Preview(rc); len(preview.Items) != 3 {
		t.Fatalf("expected 3 selected items, got %d", len(preview.Items))
	}

	result, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation:       models.LocationHeadquarters,
		ReceivedByUserID: ptr(int64(7)),
		IsTransfer:       true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.TransferredCount != 3 {
		t.Errorf("expected 3 transferred items, got %d", result.TransferredCount)
	}
	if !strings.Contains(result.Message, "assigned to Bob") {
		t.Errorf("expected assignment message naming Bob, got %q", result.Message)
	}
	if result.Filename == "" {
		t.Error("expected a saved document filename")
	}
	if fake.transferCalls != 1 || !fake.lastTransfer.IsTransfer {
		t.Errorf("expected one transfer call, got %d (is_transfer=%v)", fake.transferCalls, fake.lastTransfer.IsTransfer)
	}
	if preview := svc.Preview(rc); len(preview.Items) != 0 {
		t.Errorf("expected selection cleared after transfer, got %d items", len(preview.Items))
	}
}

func TestReportOnlyKeepsSelection(t *testing.T) {
	fake := &fakeDataAccess{items: fleetAt(1, "Greenfield")}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)

	result, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation: models.LocationHeadquarters,
		IsTransfer: false,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if fake.lastTransfer.IsTransfer {
		t.Error("report-only run must carry is_transfer=false")
	}
	if result.Filename == "" {
		t.Error("expected a saved report filename")
	}
	if preview := svc.Preview(rc); len(preview.Items) != 3 {
		t.Errorf("report-only run must keep the selection, got %d items", len(preview.Items))
	}
}

func TestSubmitBlockedOnLocationMismatch(t *testing.T) {
	schoolA := models.School{ID: 1, Name: "A"}
	schoolB := models.School{ID: 2, Name: "B"}
	idA, idB := int64(1), int64(2)
	fake := &fakeDataAccess{items: []models.InventoryItem{
		{ID: 1, Name: "Laptop", Location: models.LocationSchool, SchoolID: &idA, School: &schoolA},
		{ID: 2, Name: "Laptop", Location: models.LocationSchool, SchoolID: &idB, School: &schoolB},
	}}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)

	if preview := svc.Preview(rc); preview.Mismatch == "" {
		t.Error("expected persistent mismatch warning in preview")
	}

	_, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation: models.LocationHeadquarters,
		IsTransfer: true,
	})
	if !errors.Is(err, inventory.ErrLocationMismatch) {
		t.Fatalf("expected mismatch to block submission, got %v", err)
	}
	if fake.transferCalls != 0 {
		t.Error("blocked submission must not reach the backend")
	}
}

func TestSubmitEmptySelection(t *testing.T) {
	fake := &fakeDataAccess{items: fleetAt(1, "A")}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	_, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation: models.LocationHeadquarters,
		IsTransfer: true,
	})
	if !errors.Is(err, inventory.ErrEmptySelection) {
		t.Fatalf("expected empty-selection error, got %v", err)
	}
}

func TestCriteriaChangeClearsSelection(t *testing.T) {
	fake := &fakeDataAccess{items: fleetAt(1, "A")}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)
	svc.SetCriteria(rc, inventory.FilterCriteria{Status: models.StatusAvailable})

	if preview := svc.Preview(rc); len(preview.Items) != 0 {
		t.Fatalf("expected selection cleared on criteria change, got %d items", len(preview.Items))
	}
}

func TestSetCriteriaNormalizesSchoolReset(t *testing.T) {
	fake := &fakeDataAccess{items: fleetAt(1, "A")}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	got := svc.SetCriteria(rc, inventory.FilterCriteria{
		Location: models.LocationHeadquarters,
		SchoolID: 4,
	})
	if got.SchoolID != 0 {
		t.Fatalf("expected school criterion reset, got %d", got.SchoolID)
	}
}

func TestTeacherTransferRestrictions(t *testing.T) {
	fake := &fakeDataAccess{items: fleetAt(1, "A")}
	svc := newTransferService(t, fake)
	rc := teacherCtx(7)

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)

	_, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation: models.LocationHeadquarters,
		IsTransfer: true,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-school destination, got %v", err)
	}

	_, err = svc.Submit(context.Background(), rc, SubmitTransferRequest{
		ToLocation:       models.LocationSchool,
		ToSchoolID:       ptr(int64(2)),
		ReceivedByUserID: ptr(int64(3)),
		IsTransfer:       true,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for foreign receiver, got %v", err)
	}
	if fake.transferCalls != 0 {
		t.Error("denied submissions must not reach the backend")
	}
}

func TestClosedWorkflowDropsLateResolution(t *testing.T) {
	fake := &fakeDataAccess{
		items:   fleetAt(1, "A"),
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), rc, SubmitTransferRequest{
			ToLocation: models.LocationHeadquarters,
			IsTransfer: true,
		})
		done <- err
	}()

	<-fake.started
	svc.CloseWorkflow(rc)
	close(fake.unblock)

	if err := <-done; !errors.Is(err, ErrWorkflowClosed) {
		t.Fatalf("expected late resolution to be dropped, got %v", err)
	}
}

func TestTransferSubmitGuard(t *testing.T) {
	fake := &fakeDataAccess{
		items:   fleetAt(1, "A"),
		started: make(chan struct{}),
		unblock: make(chan struct{}),
	}
	svc := newTransferService(t, fake)
	rc := adminCtx()

	svc.SetCriteria(rc, inventory.FilterCriteria{})
	svc.ToggleAll(rc)

	req := SubmitTransferRequest{ToLocation: models.LocationHeadquarters, IsTransfer: true}
	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), rc, req)
		done <- err
	}()

	<-fake.started
	if _, err := svc.Submit(context.Background(), rc, req); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}
	close(fake.unblock)

	if err := <-done; err != nil {
		t.Fatalf("first submission should succeed, got %v", err)
	}
	if fake.transferCalls != 1 {
		t.Errorf("expected exactly one transfer call, got %d", fake.transferCalls)
	}
}
