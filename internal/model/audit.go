package model

import "time"

// AuditEvent records one administrative action on the catalog.
// Like the other models it carries no persistence tags.
type AuditEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	DocumentID *int64    `json:"document_id,omitempty"`
	Detail     string    `json:"detail"`
	Outcome    string    `json:"outcome"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit actions.
const (
	ActionAddBook        = "book.add"
	ActionEditBook       = "book.edit"
	ActionDeleteBook     = "book.delete"
	ActionBulkUpload     = "book.bulk_upload"
	ActionDownload       = "book.download"
	ActionReportDownload = "report.download"
)

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
