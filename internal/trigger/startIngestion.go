package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/internal/taskqueue"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

// Execute attempts to start one engine ingestion job covering every document
// currently in uploaded state. A busy engine defers the attempt with
// exponential backoff instead of failing the documents.
func (s *Service) Execute(ctx context.Context, task taskqueue.Task) {
	log := s.logger.With("traceId", task.TraceId, "taskId", task.TaskId, "attempt", task.Attempt)

	batch, err := s.collectUploaded(ctx)
	if err != nil {
		log.Error("Collecting uploaded documents failed", "error", err)
		s.requeue(task, log)
		return
	}
	if len(batch) == 0 {
		// Another task already swept these documents into a job.
		log.Debug("Nothing to ingest")
		return
	}

	job, err := s.engine.StartIngestionJob(ctx, batch)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindConflict, apperror.KindUpstream:
			metrics.CaptureIngestionRetry()
			log.Info("Engine busy, deferring ingestion start", "documents", len(batch))
			s.requeue(task, log)
		default:
			log.Error("Starting ingestion job failed permanently", "error", err)
			s.failBatch(ctx, batch, fmt.Sprintf("ingestion could not be started: %v", err))
		}
		return
	}

	if err := s.jobs.SaveJob(ctx, job); err != nil {
		log.Error("Persisting ingestion job failed", "jobId", job.JobId, "error", err)
	}

	for _, doc := range batch {
		_, err := s.docs.UpdateStatus(ctx, doc.Id, docModel.StatusUploaded, docModel.StatusProcessing, nil)
		if err != nil && !errors.Is(err, docModel.ErrStaleTransition) {
			log.Error("Marking document processing failed", "documentId", doc.Id, "error", err)
			continue
		}
		metrics.CaptureDocumentTransition(string(docModel.StatusUploaded), string(docModel.StatusProcessing))
	}

	log.Info("Ingestion job started", "jobId", job.JobId, "documents", len(batch))
}

func (s *Service) collectUploaded(ctx context.Context) ([]docModel.Document, error) {
	all, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	var batch []docModel.Document
	for _, doc := range all {
		if doc.Status == docModel.StatusUploaded {
			batch = append(batch, doc)
		}
	}
	return batch, nil
}

func (s *Service) requeue(task taskqueue.Task, log *logger_i.Logger) {
	next := task.Attempt + 1
	if next > config.IngestRetryMaxAttempts {
		log.Error("Ingestion start attempts exhausted", "attempts", task.Attempt)

		ctx := context.Background()
		if batch, err := s.collectUploaded(ctx); err == nil {
			s.failBatch(ctx, batch, "ingestion could not be scheduled: retry attempts exhausted")
		}
		return
	}

	delay := backoffDelay(next)
	time.AfterFunc(delay, func() {
		s.enqueueStart(task.DocumentIds, next, task.TraceId)
	})
}

func (s *Service) failBatch(ctx context.Context, batch []docModel.Document, detail string) {
	for _, doc := range batch {
		_, err := s.docs.UpdateStatus(ctx, doc.Id, docModel.StatusUploaded, docModel.StatusFailed, func(d *docModel.Document) {
			d.ErrorDetail = detail
		})
		if err != nil && !errors.Is(err, docModel.ErrStaleTransition) {
			s.logger.Error("Marking document failed errored", "documentId", doc.Id, "error", err)
			continue
		}
		metrics.CaptureDocumentTransition(string(docModel.StatusUploaded), string(docModel.StatusFailed))
	}
}

func backoffDelay(attempt int) time.Duration {
	delay := config.IngestRetryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= config.IngestRetryMaxDelay {
			return config.IngestRetryMaxDelay
		}
	}
	return delay
}
