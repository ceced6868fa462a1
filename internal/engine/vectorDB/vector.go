package vectorDB

import (
	"context"

	"github.com/akolanti/DocGateway/internal/engine/extract"
)

// Match is a scored passage returned from the index.
type Match struct {
	Content     string
	DocumentRef string
	Score       float32
}

type Index interface {
	Search(ctx context.Context, vectorVal []float32, topK int) ([]Match, error)

	// UpsertBatch Ingest document call
	UpsertBatch(ctx context.Context, collectionName string, chunks []extract.Chunk, vectors [][]float32) error
	EnsureCollection(ctx context.Context, collectionName string) error

	DeleteByDocument(ctx context.Context, documentId string) error
	CountPoints(ctx context.Context) (int64, bool)
}
