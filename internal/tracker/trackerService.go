package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/internal/objectstore"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

// Stats summarizes the tracked documents.
type Stats struct {
	TotalDocuments   int
	IndexedDocuments int
	ByStatus         map[docModel.DocumentStatus]int
	ByFileType       map[string]int
	TotalSizeBytes   int64
}

// IngestionScheduler enqueues an ingestion-start attempt. The poller uses
// it to recover documents whose original start task was lost, for example
// when the task buffer was full.
type IngestionScheduler interface {
	ScheduleStart(documentIds []string, traceId string)
}

type Service struct {
	docs      docModel.DocumentStore
	jobs      docModel.JobStore
	engine    engine.Engine
	objects   objectstore.ObjectStore
	scheduler IngestionScheduler
	logger    *logger_i.Logger
}

func NewService(docs docModel.DocumentStore, jobs docModel.JobStore, eng engine.Engine, objects objectstore.ObjectStore, scheduler IngestionScheduler) *Service {
	return &Service{
		docs:      docs,
		jobs:      jobs,
		engine:    eng,
		objects:   objects,
		scheduler: scheduler,
		logger:    logger_i.NewLogger("Status Tracker"),
	}
}

func (s *Service) GetDocument(ctx context.Context, id string) (docModel.Document, error) {
	doc, found := s.docs.GetDocument(ctx, id)
	if !found {
		return docModel.Document{}, apperror.NotFound("unknown document: " + id)
	}
	return doc, nil
}

// ListDocuments returns every tracked document, optionally filtered by
// status. Results are ordered newest first.
func (s *Service) ListDocuments(ctx context.Context, statusFilter string) ([]docModel.Document, error) {
	if statusFilter != "" && !docModel.ValidStatus(docModel.DocumentStatus(statusFilter)) {
		return nil, apperror.Validation("unknown status filter: " + statusFilter)
	}

	all, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, apperror.Internal("listing documents failed", err)
	}

	var out []docModel.Document
	for _, doc := range all {
		if statusFilter == "" || string(doc.Status) == statusFilter {
			out = append(out, doc)
		}
	}

	sortNewestFirst(out)
	return out, nil
}

// DeleteDocument removes the tracking record, the stored object and any
// indexed vectors. Cleanup of the object and the index is best effort: the
// record disappears even when a backend call fails, so the caller never sees
// a half-deleted document reappear.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", id)

	doc, found := s.docs.GetDocument(ctx, id)
	if !found {
		return apperror.NotFound("unknown document: " + id)
	}

	if err := s.docs.DeleteDocument(ctx, id); err != nil {
		return apperror.Internal("deleting document record failed", err)
	}

	if err := s.objects.Remove(ctx, doc.StorageKey); err != nil {
		log.Warn("Removing stored object failed", "key", doc.StorageKey, "error", err)
	}

	if err := s.engine.DeleteDocument(ctx, id); err != nil {
		log.Warn("Index cleanup unconfirmed, vectors may linger", "error", err)
	}

	log.Info("Document deleted")
	return nil
}

func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	all, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return Stats{}, apperror.Internal("listing documents failed", err)
	}

	stats := Stats{
		ByStatus:   make(map[docModel.DocumentStatus]int),
		ByFileType: make(map[string]int),
	}
	for _, doc := range all {
		stats.TotalDocuments++
		stats.ByStatus[doc.Status]++
		stats.TotalSizeBytes += doc.SizeBytes

		ext := strings.ToLower(filepath.Ext(doc.OriginalFilename))
		if ext == "" {
			ext = "unknown"
		}
		stats.ByFileType[ext]++

		if doc.Status == docModel.StatusIndexed {
			stats.IndexedDocuments++
		}
	}
	return stats, nil
}

func (s *Service) markIndexed(ctx context.Context, id string) {
	_, err := s.docs.UpdateStatus(ctx, id, docModel.StatusProcessing, docModel.StatusIndexed, func(d *docModel.Document) {
		d.IndexedAt = time.Now().UTC()
		d.ErrorDetail = ""
	})
	if err != nil && !errors.Is(err, docModel.ErrStaleTransition) {
		s.logger.Error("Marking document indexed failed", "documentId", id, "error", err)
		return
	}
	metrics.CaptureDocumentTransition(string(docModel.StatusProcessing), string(docModel.StatusIndexed))
}

func (s *Service) markFailed(ctx context.Context, id string, detail string) {
	_, err := s.docs.UpdateStatus(ctx, id, docModel.StatusProcessing, docModel.StatusFailed, func(d *docModel.Document) {
		d.ErrorDetail = detail
	})
	if err != nil && !errors.Is(err, docModel.ErrStaleTransition) {
		s.logger.Error("Marking document failed errored", "documentId", id, "error", err)
		return
	}
	metrics.CaptureDocumentTransition(string(docModel.StatusProcessing), string(docModel.StatusFailed))
}

func sortNewestFirst(docs []docModel.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
}
