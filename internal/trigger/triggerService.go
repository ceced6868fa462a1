package trigger

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/internal/taskqueue"
	"github.com/akolanti/DocGateway/pkg/logger_i"
	"github.com/google/uuid"
)

type Service struct {
	docs   docModel.DocumentStore
	jobs   docModel.JobStore
	engine engine.Engine
	tasks  *taskqueue.Service
	cfg    *config.Settings
	logger *logger_i.Logger
}

func NewService(docs docModel.DocumentStore, jobs docModel.JobStore, eng engine.Engine, tasks *taskqueue.Service, cfg *config.Settings) *Service {
	return &Service{
		docs:   docs,
		jobs:   jobs,
		engine: eng,
		tasks:  tasks,
		cfg:    cfg,
		logger: logger_i.NewLogger("Ingestion Trigger"),
	}
}

// OnObjectCreated handles a storage notification for a finished upload. The
// event may arrive more than once; only the first pending->uploaded
// transition enqueues work, later duplicates are no-ops.
func (s *Service) OnObjectCreated(ctx context.Context, key string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "key", key)

	id, ok := s.documentIdFromKey(key)
	if !ok {
		log.Warn("Ignoring event for object outside the document prefix")
		return nil
	}

	if _, found := s.docs.GetDocument(ctx, id); !found {
		// Objects we never issued a grant for are not ours to ingest.
		log.Warn("Ignoring event for unknown document", "documentId", id)
		return nil
	}

	_, err := s.docs.UpdateStatus(ctx, id, docModel.StatusPending, docModel.StatusUploaded, nil)
	if err != nil {
		if errors.Is(err, docModel.ErrStaleTransition) {
			log.Debug("Duplicate upload event, document already past pending", "documentId", id)
			return nil
		}
		return apperror.Internal("document transition failed", err)
	}
	metrics.CaptureDocumentTransition(string(docModel.StatusPending), string(docModel.StatusUploaded))

	s.enqueueStart([]string{id}, 0, traceIdFrom(ctx))
	return nil
}

// ScheduleStart enqueues a fresh ingestion-start attempt for the given
// documents. The status poller calls this for uploads whose original task
// never reached the pool.
func (s *Service) ScheduleStart(documentIds []string, traceId string) {
	s.enqueueStart(documentIds, 0, traceId)
}

func (s *Service) enqueueStart(documentIds []string, attempt int, traceId string) {
	s.tasks.Enqueue(taskqueue.Task{
		TaskId:      uuid.New().String(),
		DocumentIds: documentIds,
		Attempt:     attempt,
		TraceId:     traceId,
		EnqueuedAt:  time.Now().UTC(),
	})
}

func (s *Service) documentIdFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, s.cfg.DocumentPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(key, s.cfg.DocumentPrefix)
	id := strings.TrimSuffix(name, filepath.Ext(name))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func traceIdFrom(ctx context.Context) string {
	if v, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return v
	}
	return ""
}
