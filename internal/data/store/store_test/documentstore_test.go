package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/data/redisStore"
	"github.com/akolanti/DocGateway/internal/data/store"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newDocumentStore(t *testing.T) *store.RedisDocumentStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestDocumentStore(redisStore.NewTestStore(client))
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	docStore := newDocumentStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	docID := "doc_abc_123"

	testDoc := docModel.Document{
		Id:               docID,
		StorageKey:       "documents/" + docID + ".pdf",
		OriginalFilename: "handbook.pdf",
		ContentType:      "application/pdf",
		SizeBytes:        2048,
		Status:           docModel.StatusPending,
		UploadedAt:       time.Now().UTC(),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, testDoc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		retrieved, found := docStore.GetDocument(ctx, docID)
		if !found {
			t.Fatal("Document was saved but not found in Redis")
		}
		if retrieved.OriginalFilename != testDoc.OriginalFilename {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrieved.OriginalFilename, testDoc.OriginalFilename)
		}
		if retrieved.Status != docModel.StatusPending {
			t.Errorf("Status got %s, want %s", retrieved.Status, docModel.StatusPending)
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		_, found := docStore.GetDocument(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("List Contains Saved Document", func(t *testing.T) {
		docs, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 || docs[0].Id != docID {
			t.Errorf("List got %d documents, want 1 with id %s", len(docs), docID)
		}
	})

	t.Run("Delete Document", func(t *testing.T) {
		if err := docStore.DeleteDocument(ctx, docID); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if _, found := docStore.GetDocument(ctx, docID); found {
			t.Error("Document still exists after DeleteDocument call")
		}

		docs, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("List still holds %d documents after delete", len(docs))
		}
	})
}

func TestRedisDocumentStore_UpdateStatus(t *testing.T) {
	docStore := newDocumentStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	doc := docModel.Document{
		Id:         "doc-transitions",
		Status:     docModel.StatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := docStore.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	t.Run("Conditional Transition Applies", func(t *testing.T) {
		updated, err := docStore.UpdateStatus(ctx, doc.Id, docModel.StatusPending, docModel.StatusUploaded, nil)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if updated.Status != docModel.StatusUploaded {
			t.Errorf("Status got %s, want %s", updated.Status, docModel.StatusUploaded)
		}
	})

	t.Run("Stale Predecessor Is Rejected", func(t *testing.T) {
		//the document is already uploaded, a duplicate pending->uploaded must no-op
		_, err := docStore.UpdateStatus(ctx, doc.Id, docModel.StatusPending, docModel.StatusUploaded, nil)
		if !errors.Is(err, docModel.ErrStaleTransition) {
			t.Errorf("expected ErrStaleTransition, got %v", err)
		}

		stored, _ := docStore.GetDocument(ctx, doc.Id)
		if stored.Status != docModel.StatusUploaded {
			t.Errorf("stale update must not change status, got %s", stored.Status)
		}
	})

	t.Run("Missing Document Is Stale", func(t *testing.T) {
		_, err := docStore.UpdateStatus(ctx, "ghost-id", docModel.StatusPending, docModel.StatusUploaded, nil)
		if !errors.Is(err, docModel.ErrStaleTransition) {
			t.Errorf("expected ErrStaleTransition, got %v", err)
		}
	})

	t.Run("Mutate Runs Inside The Write", func(t *testing.T) {
		updated, err := docStore.UpdateStatus(ctx, doc.Id, docModel.StatusUploaded, docModel.StatusFailed, func(d *docModel.Document) {
			d.ErrorDetail = "extraction blew up"
		})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if updated.ErrorDetail != "extraction blew up" {
			t.Errorf("ErrorDetail got %q", updated.ErrorDetail)
		}

		stored, _ := docStore.GetDocument(ctx, doc.Id)
		if stored.ErrorDetail != "extraction blew up" || stored.Status != docModel.StatusFailed {
			t.Errorf("stored document not mutated: %+v", stored)
		}
	})

	t.Run("Invalid Transition Is Rejected", func(t *testing.T) {
		//failed is terminal
		_, err := docStore.UpdateStatus(ctx, doc.Id, docModel.StatusFailed, docModel.StatusIndexed, nil)
		if !errors.Is(err, docModel.ErrStaleTransition) {
			t.Errorf("expected ErrStaleTransition, got %v", err)
		}
	})
}
