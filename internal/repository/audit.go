package repository

import (
	"context"

	"libraryfront/internal/model"
)

// AuditRepository persists the audit trail of administrative actions using SQL only.
type AuditRepository interface {
	// Create inserts a new audit event and returns the stored row.
	Create(ctx context.Context, ev *model.AuditEvent) (*model.AuditEvent, error)

	// List returns audit events newest first together with the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.AuditEvent], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
