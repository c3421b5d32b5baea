package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"libraryfront/internal/model"
	"libraryfront/internal/repository"
)

// ErrAuditDisabled is returned by List when no audit store is configured.
var ErrAuditDisabled = errors.New("audit log is not configured")

// AuditListResult is the service-level DTO for paginated audit events.
type AuditListResult struct {
	Items []model.AuditEvent `json:"data"`
	Total int                `json:"total"`
}

// AuditService records and lists administrative actions.
type AuditService interface {
	// Record stores one action. cause is the error the action ended with, nil on success.
	// Storage failures are logged, never returned: auditing must not fail the action itself.
	Record(ctx context.Context, action string, documentID *int64, detail string, cause error)

	// List returns audit events using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*AuditListResult, error)
}

type auditService struct {
	repo repository.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService constructs an AuditService. A nil repo turns Record into a log-only call
// and makes List fail with ErrAuditDisabled.
func NewAuditService(repo repository.AuditRepository, log zerolog.Logger) AuditService {
	return &auditService{repo: repo, log: log, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, action string, documentID *int64, detail string, cause error) {
	ev := &model.AuditEvent{
		ID:         uuid.New().String(),
		Action:     action,
		DocumentID: documentID,
		Detail:     detail,
		Outcome:    model.OutcomeSuccess,
		CreatedAt:  s.now().UTC(),
	}
	if cause != nil {
		ev.Outcome = model.OutcomeFailure
	}

	le := s.log.Info()
	if cause != nil {
		le = s.log.Warn().Err(cause)
	}
	if documentID != nil {
		le = le.Int64("document_id", *documentID)
	}
	le.Str("action", action).Str("outcome", ev.Outcome).Str("detail", detail).Msg("audit")

	if s.repo == nil {
		return
	}
	// outlive request cancellation
	ctx = context.WithoutCancel(ctx)
	if _, err := s.repo.Create(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("audit_write_failed")
	}
}

func (s *auditService) List(ctx context.Context, limit, offset int) (*AuditListResult, error) {
	if s.repo == nil {
		return nil, ErrAuditDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AuditListResult{Items: res.Items, Total: res.Total}, nil
}
