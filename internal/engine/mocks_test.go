package engine_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocGateway/internal/engine/extract"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
)

// MockObjectStore implements objectstore.ObjectStore
type MockObjectStore struct {
	OnFetch func(ctx context.Context, key string) (io.ReadCloser, error)
}

func (m *MockObjectStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.OnFetch != nil {
		return m.OnFetch(ctx, key)
	}
	return io.NopCloser(strings.NewReader("plain text content for indexing")), nil
}

func (m *MockObjectStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", nil
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

// MockIndex implements vectorDB.Index
type MockIndex struct {
	OnSearch      func(ctx context.Context, vectorVal []float32, topK int) ([]vectorDB.Match, error)
	OnUpsertBatch func(ctx context.Context, collectionName string, chunks []extract.Chunk, vectors [][]float32) error

	mu             sync.Mutex
	UpsertedChunks []extract.Chunk
	DeletedIds     []string
}

func (m *MockIndex) Search(ctx context.Context, vectorVal []float32, topK int) ([]vectorDB.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vectorVal, topK)
	}
	return []vectorDB.Match{{Content: "default context", DocumentRef: "doc.pdf", Score: 0.8}}, nil
}

func (m *MockIndex) UpsertBatch(ctx context.Context, collectionName string, chunks []extract.Chunk, vectors [][]float32) error {
	m.mu.Lock()
	m.UpsertedChunks = append(m.UpsertedChunks, chunks...)
	m.mu.Unlock()
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, collectionName, chunks, vectors)
	}
	return nil
}

func (m *MockIndex) EnsureCollection(ctx context.Context, collectionName string) error {
	return nil
}

func (m *MockIndex) DeleteByDocument(ctx context.Context, documentId string) error {
	m.mu.Lock()
	m.DeletedIds = append(m.DeletedIds, documentId)
	m.mu.Unlock()
	return nil
}

func (m *MockIndex) CountPoints(ctx context.Context) (int64, bool) {
	return 42, true
}

func (m *MockIndex) Upserted() []extract.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]extract.Chunk(nil), m.UpsertedChunks...)
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHugeDataSet)
	}
	return make([][]float32, len(chunks)), nil
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnGenerate func(ctx context.Context, question string, passages []string) (string, error)
}

func (m *MockProvider) Generate(ctx context.Context, question string, passages []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, passages)
	}
	return "mocked llm response", nil
}

func (m *MockProvider) ModelName() string {
	return "mock-model"
}
