// Package documents saves backend-generated binary documents (receipts and
// reports) to disk under the timestamped naming convention the operations
// team expects.
package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"school_ops_backend/internal/metrics"
)

// Document purposes used as filename prefixes.
const (
	PurposeTransferReceipt = "Transfer_Receipt"
	PurposeTransferReport  = "Transfer_Report"
	PurposeInventoryReport = "Inventory_Report"
	PurposeItemReport      = "Item_Report"
)

// Filename builds the conventional document name: <Purpose>_<YYYY-MM-DD>.pdf.
func Filename(purpose string, now time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", purpose, now.Format("2006-01-02"))
}

// Save writes the document into dir under its conventional name and
// returns that name. The directory is created on first use.
func Save(dir, purpose string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating document directory: %w", err)
	}
	name := Filename(purpose, time.Now())
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing document %s: %w", name, err)
	}
	metrics.DocumentsSaved.WithLabelValues(purpose).Inc()
	return name, nil
}
