package mocks

import (
	"context"

	"libraryfront/internal/backend"
	"libraryfront/internal/catalog"
	"libraryfront/internal/model"
	"libraryfront/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Add(ctx context.Context, form model.BookForm, att *backend.Attachment) (model.Notification, error) {
	args := m.Called(ctx, form, att)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockBookService) Edit(ctx context.Context, id int64, form model.BookForm, att *backend.Attachment) (model.Notification, error) {
	args := m.Called(ctx, id, form, att)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id int64) (model.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockBookService) BulkUpload(ctx context.Context, files []backend.Attachment) (*service.BulkResult, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkResult), args.Error(1)
}

func (m *MockBookService) Download(ctx context.Context, id int64) (*model.DownloadFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadFile), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Get(ctx context.Context, r model.DateRange) (*model.Dashboard, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, kind model.ReportKind, r model.DateRange) (*model.Report, error) {
	args := m.Called(ctx, kind, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, action string, documentID *int64, detail string, cause error) {
	m.Called(ctx, action, documentID, detail, cause)
}

func (m *MockAuditService) List(ctx context.Context, limit, offset int) (*service.AuditListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditListResult), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, q catalog.QueryState) *service.CatalogPage {
	args := m.Called(ctx, q)
	return args.Get(0).(*service.CatalogPage)
}
