package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"libraryfront/internal/model"
	"libraryfront/internal/storage"
)

// XLSXContentType is the media type of the spreadsheet reports.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultReportURLTTL is how long presigned report links stay valid.
const DefaultReportURLTTL = 15 * time.Minute

var (
	ErrUnknownReport = errors.New("unknown report kind")
	ErrEmptyReport   = errors.New("backend returned an empty report")
)

// ReportBackend is the part of the backend client the report service uses.
type ReportBackend interface {
	Report(ctx context.Context, kind model.ReportKind, r model.DateRange) ([]byte, error)
}

// ReportService renders spreadsheet reports and archives each copy in object storage.
type ReportService interface {
	// Generate renders the report. Archiving is best effort: when the object store is
	// unavailable the report is still returned, without ArchiveKey and ArchiveURL.
	Generate(ctx context.Context, kind model.ReportKind, r model.DateRange) (*model.Report, error)
}

type reportService struct {
	backend ReportBackend
	store   storage.Storage
	audit   AuditService
	log     zerolog.Logger
	urlTTL  time.Duration
	now     func() time.Time
}

// NewReportService constructs a new ReportService. store may be nil to disable archiving.
func NewReportService(b ReportBackend, store storage.Storage, audit AuditService, log zerolog.Logger) ReportService {
	return &reportService{backend: b, store: store, audit: audit, log: log, urlTTL: DefaultReportURLTTL, now: time.Now}
}

// ReportKey is the object key a report is archived under.
func ReportKey(kind model.ReportKind, r model.DateRange, id string) string {
	return path.Join("reports", string(kind), fmt.Sprintf("%s_%s_%s.xlsx", r.StartDate, r.EndDate, id))
}

func (s *reportService) Generate(ctx context.Context, kind model.ReportKind, r model.DateRange) (*model.Report, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}

	data, err := s.backend.Report(ctx, kind, r)
	if err == nil && len(data) == 0 {
		err = ErrEmptyReport
	}
	if err != nil {
		s.audit.Record(ctx, model.ActionReportDownload, nil, string(kind), err)
		return nil, err
	}

	rep := &model.Report{
		Kind:        kind,
		Range:       r,
		FileName:    fmt.Sprintf("%s-report_%s_%s.xlsx", kind, r.StartDate, r.EndDate),
		ContentType: XLSXContentType,
		Data:        data,
	}
	s.archive(ctx, rep)
	s.audit.Record(ctx, model.ActionReportDownload, nil, string(kind)+" "+r.StartDate+".."+r.EndDate, nil)
	return rep, nil
}

func (s *reportService) archive(ctx context.Context, rep *model.Report) {
	if s.store == nil {
		return
	}
	key := ReportKey(rep.Kind, rep.Range, uuid.New().String())
	_, err := s.store.Put(ctx, storage.Object{
		Key:         key,
		Body:        bytes.NewReader(rep.Data),
		Size:        int64(len(rep.Data)),
		ContentType: rep.ContentType,
		Metadata: map[string]string{
			"report-kind": string(rep.Kind),
			"start-date":  rep.Range.StartDate,
			"end-date":    rep.Range.EndDate,
		},
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("report_archive_failed")
		return
	}

	u, err := s.store.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		// an archived copy nobody can reach is removed again
		s.log.Warn().Err(err).Str("key", key).Msg("report_presign_failed")
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report_archive_cleanup_failed")
		}
		return
	}
	rep.ArchiveKey = key
	rep.ArchiveURL = u
	rep.URLExpires = s.now().Add(s.urlTTL)
}
