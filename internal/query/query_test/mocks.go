package query_test

import (
	"context"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
)

// MockEngine implements engine.Engine
type MockEngine struct {
	// Control fields to simulate different behaviors
	OnRetrieve func(ctx context.Context, question string, topK int) ([]vectorDB.Match, error)
	OnGenerate func(ctx context.Context, question string, passages []string) (string, error)

	RetrieveCalls int
	GenerateCalls int
}

func (m *MockEngine) Retrieve(ctx context.Context, question string, topK int) ([]vectorDB.Match, error) {
	m.RetrieveCalls++
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, question, topK)
	}
	return []vectorDB.Match{{Content: "default passage", DocumentRef: "doc.pdf", Score: 0.9}}, nil
}

func (m *MockEngine) Generate(ctx context.Context, question string, passages []string) (string, error) {
	m.GenerateCalls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, passages)
	}
	return "mocked answer", nil
}

func (m *MockEngine) StartIngestionJob(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error) {
	return docModel.IngestionJob{}, nil
}

func (m *MockEngine) GetIngestionJob(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
	return docModel.IngestionJob{}, nil
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
