package upload_test

import (
	"context"
	"io"
	"time"
)

// MockObjectStore implements objectstore.ObjectStore
type MockObjectStore struct {
	OnPresignPut func(ctx context.Context, key string, expiry time.Duration) (string, error)
}

func (m *MockObjectStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.OnPresignPut != nil {
		return m.OnPresignPut(ctx, key, expiry)
	}
	return "https://objects.local/" + key + "?signed", nil
}

func (m *MockObjectStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	return nil
}

func (m *MockObjectStore) Bucket() string {
	return "test-bucket"
}

func (m *MockObjectStore) Healthy(ctx context.Context) error {
	return nil
}
