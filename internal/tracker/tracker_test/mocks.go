package tracker_test

import (
	"context"
	"io"
	"time"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
)

// MockEngine implements engine.Engine
type MockEngine struct {
	OnGetIngestionJob func(ctx context.Context, jobId string) (docModel.IngestionJob, error)
	OnDeleteDocument  func(ctx context.Context, documentId string) error
}

func (m *MockEngine) GetIngestionJob(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
	if m.OnGetIngestionJob != nil {
		return m.OnGetIngestionJob(ctx, jobId)
	}
	return docModel.IngestionJob{JobId: jobId, Status: docModel.JobStatusRunning}, nil
}

func (m *MockEngine) DeleteDocument(ctx context.Context, documentId string) error {
	if m.OnDeleteDocument != nil {
		return m.OnDeleteDocument(ctx, documentId)
	}
	return nil
}

func (m *MockEngine) StartIngestionJob(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error) {
	return docModel.IngestionJob{}, nil
}

func (m *MockEngine) Retrieve(ctx context.Context, question string, topK int) ([]vectorDB.Match, error) {
	return nil, nil
}

func (m *MockEngine) Generate(ctx context.Context, question string, passages []string) (string, error) {
	return "", nil
}

func (m *MockEngine) Describe(ctx context.Context) engine.Description {
	return engine.Description{}
}

func (m *MockEngine) ModelName() string {
	return "mock-model"
}

// MockScheduler implements tracker.IngestionScheduler
type MockScheduler struct {
	ScheduledBatches [][]string
}

func (m *MockScheduler) ScheduleStart(documentIds []string, traceId string) {
	m.ScheduledBatches = append(m.ScheduledBatches, documentIds)
}

// MockObjectStore implements objectstore.ObjectStore
type MockObjectStore struct {
	OnRemove func(ctx context.Context, key string) error

	RemovedKeys []string
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	m.RemovedKeys = append(m.RemovedKeys, key)
	if m.OnRemove != nil {
		return m.OnRemove(ctx, key)
	}
	return nil
}

func (m *MockObjectStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", nil
}

func (m *MockObjectStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (m *MockObjectStore) Bucket() string {
	return "test-bucket"
}

func (m *MockObjectStore) Healthy(ctx context.Context) error {
	return nil
}
