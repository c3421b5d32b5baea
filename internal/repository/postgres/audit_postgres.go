package postgres

import (
	"context"
	"database/sql"

	"libraryfront/internal/model"
	"libraryfront/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Create inserts an audit row and returns it as stored.
func (r *AuditPostgres) Create(ctx context.Context, ev *model.AuditEvent) (*model.AuditEvent, error) {
	const q = `
		INSERT INTO audit_events (id, action, document_id, detail, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, action, document_id, detail, outcome, created_at
	`
	var docID sql.NullInt64
	if ev.DocumentID != nil {
		docID = sql.NullInt64{Int64: *ev.DocumentID, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		ev.ID,
		ev.Action,
		docID,
		ev.Detail,
		ev.Outcome,
		ev.CreatedAt,
	)
	out, err := scanAudit(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns audit events using LIMIT/OFFSET pagination and a total count.
func (r *AuditPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AuditEvent], error) {
	const qCount = `SELECT COUNT(*) FROM audit_events`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, action, document_id, detail, outcome, created_at
		FROM audit_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEvent, 0)
	for rows.Next() {
		ev, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditEvent]{
		Items: items,
		Total: total,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAudit(s scanner) (model.AuditEvent, error) {
	var (
		ev    model.AuditEvent
		docID sql.NullInt64
	)
	if err := s.Scan(&ev.ID, &ev.Action, &docID, &ev.Detail, &ev.Outcome, &ev.CreatedAt); err != nil {
		return model.AuditEvent{}, err
	}
	if docID.Valid {
		id := docID.Int64
		ev.DocumentID = &id
	}
	return ev, nil
}
