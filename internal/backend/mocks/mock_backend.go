package mocks

import (
	"context"
	"encoding/json"

	"libraryfront/internal/backend"
	"libraryfront/internal/catalog"
	"libraryfront/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Query(ctx context.Context, req catalog.ListingRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) AddBook(ctx context.Context, form model.BookForm, att *backend.Attachment) error {
	args := m.Called(ctx, form, att)
	return args.Error(0)
}

func (m *MockBackend) EditBook(ctx context.Context, id int64, form model.BookForm, att *backend.Attachment) error {
	args := m.Called(ctx, id, form, att)
	return args.Error(0)
}

func (m *MockBackend) DeleteBook(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) BulkUpload(ctx context.Context, files []backend.Attachment) (json.RawMessage, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockBackend) Download(ctx context.Context, id int64) (*model.DownloadFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadFile), args.Error(1)
}

func (m *MockBackend) BooksByDepartment(ctx context.Context, r model.DateRange) (model.CountSeries, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(model.CountSeries), args.Error(1)
}

func (m *MockBackend) BooksByCategory(ctx context.Context, r model.DateRange) (model.CountSeries, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(model.CountSeries), args.Error(1)
}

func (m *MockBackend) TotalBooks(ctx context.Context, r model.DateRange) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) DownloadedBooks(ctx context.Context, r model.DateRange) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) PopularBooks(ctx context.Context, r model.DateRange) ([]model.PopularBook, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PopularBook), args.Error(1)
}

func (m *MockBackend) Report(ctx context.Context, kind model.ReportKind, r model.DateRange) ([]byte, error) {
	args := m.Called(ctx, kind, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
