package store

import (
	"context"
	"sync"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

// InMemoryDocumentStore is the offline fallback when Redis is unreachable,
// and the store used by most unit tests.
type InMemoryDocumentStore struct {
	mu     sync.RWMutex
	docs   map[string]docModel.Document
	logger *logger_i.Logger
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs:   make(map[string]docModel.Document),
		logger: logger_i.NewLogger("InMem DocumentStore"),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.docs[id]
	return doc, found
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]docModel.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *InMemoryDocumentStore) UpdateStatus(ctx context.Context, id string, from, to docModel.DocumentStatus, mutate func(*docModel.Document)) (docModel.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, found := s.docs[id]
	if !found || doc.Status != from || !docModel.CanTransition(from, to) {
		return docModel.Document{}, docModel.ErrStaleTransition
	}

	doc.Status = to
	if mutate != nil {
		mutate(&doc)
	}
	s.docs[id] = doc
	return doc, nil
}
