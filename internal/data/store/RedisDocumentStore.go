package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/data/redisStore"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "doc:"
	documentIndexKey  = "docs:index"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, documentKeyPrefix+doc.Id, data, config.RedisDocumentStoreTTL); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, documentIndexKey, doc.Id); err != nil {
		return err
	}
	log.Debug("Saved document", "status", doc.Status)
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, documentKeyPrefix+id)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		s.logger.Error("Error reading document", "documentId", id, "error", err)
		return doc, false
	}

	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		s.logger.Error("Corrupt document record", "documentId", id, "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, err
	}

	docs := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, documentKeyPrefix+id); err != nil {
		return err
	}
	return s.store.SetRemove(ctx, documentIndexKey, id)
}

// UpdateStatus is the optimistic concurrency point: an object-store event and
// a status poll may race on the same document, so the transition runs inside
// a WATCH and only applies when the stored status still matches `from`.
func (s *RedisDocumentStore) UpdateStatus(ctx context.Context, id string, from, to docModel.DocumentStatus, mutate func(*docModel.Document)) (docModel.Document, error) {
	var updated docModel.Document

	//a concurrent writer aborts the WATCH transaction; retry a few times
	//before giving up
	for attempt := 0; attempt < 3; attempt++ {
		err := s.store.UpdateJSON(ctx, documentKeyPrefix+id, config.RedisDocumentStoreTTL, func(current string) (string, error) {
			if current == "" {
				return "", docModel.ErrStaleTransition
			}
			var doc docModel.Document
			if err := json.Unmarshal([]byte(current), &doc); err != nil {
				return "", err
			}
			if doc.Status != from || !docModel.CanTransition(from, to) {
				return "", docModel.ErrStaleTransition
			}

			doc.Status = to
			if mutate != nil {
				mutate(&doc)
			}
			updated = doc

			next, err := json.Marshal(doc)
			if err != nil {
				return "", err
			}
			return string(next), nil
		})

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return updated, err
	}
	return updated, redis.TxFailedErr
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
