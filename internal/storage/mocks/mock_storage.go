package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"libraryfront/internal/storage"
)

// MockStorage records archive calls. Put drains the object body so that
// expectations can compare the uploaded bytes through Body.
type MockStorage struct {
	mock.Mock
	Body []byte
}

func (m *MockStorage) Put(ctx context.Context, obj storage.Object) (storage.ObjectInfo, error) {
	if obj.Body != nil {
		m.Body, _ = io.ReadAll(obj.Body)
	}
	args := m.Called(ctx, obj.Key, obj.ContentType, obj.Metadata)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
