package trigger_test

import (
	"context"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
)

// MockEngine implements engine.Engine
type MockEngine struct {
	OnStartIngestionJob func(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error)

	StartCalls int
}

func (m *MockEngine) StartIngestionJob(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error) {
	m.StartCalls++
	if m.OnStartIngestionJob != nil {
		return m.OnStartIngestionJob(ctx, docs)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Id)
	}
	return docModel.IngestionJob{
		JobId:       "mock-job",
		DocumentIds: ids,
		Status:      docModel.JobStatusRunning,
	}, nil
}

func (m *MockEngine) GetIngestionJob(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
	return docModel.IngestionJob{}, nil
}

func (m *MockEngine) Retrieve(ctx context.Context, question string, topK int) ([]vectorDB.Match, error) {
	return nil, nil
}

func (m *MockEngine) Generate(ctx context.Context, question string, passages []string) (string, error) {
	return "", nil
}

func (m *MockEngine) DeleteDocument(ctx context.Context, documentId string) error {
	return nil
}

func (m *MockEngine) Describe(ctx context.Context) engine.Description {
	return engine.Description{}
}

func (m *MockEngine) ModelName() string {
	return "mock-model"
}
