package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"libraryfront/internal/model"
	"libraryfront/internal/repository"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, ev *model.AuditEvent) (*model.AuditEvent, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEvent), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AuditEvent], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AuditEvent]), args.Error(1)
}
