package documents

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilenameConvention(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	got := Filename(PurposeTransferReceipt, now)
	if got != "Transfer_Receipt_2026-03-14.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestSaveWritesDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	data := []byte("%PDF-1.7 test")

	name, err := Save(dir, PurposeInventoryReport, data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading saved document: %v", err)
	}
	if string(written) != string(data) {
		t.Error("saved document does not match input")
	}
}
