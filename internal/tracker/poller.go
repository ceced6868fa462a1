package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
)

// StartPolling watches running ingestion jobs until the context ends.
func (s *Service) StartPolling(ctx context.Context) {
	ticker := time.NewTicker(config.JobPollInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Stopping job poller")
				return
			case <-ticker.C:
				s.Poll(ctx)
			}
		}
	}()
}

// Poll reconciles every running job against the engine and settles the
// documents it covers. Safe to call concurrently with event handling: all
// document writes are conditional.
func (s *Service) Poll(ctx context.Context) {
	running, err := s.jobs.ListRunningJobs(ctx)
	if err != nil {
		s.logger.Error("Listing running jobs failed", "error", err)
		return
	}

	for _, job := range running {
		s.reconcileJob(ctx, job)
	}

	if len(running) == 0 {
		s.recoverStranded(ctx)
	}
}

// recoverStranded re-enqueues documents sitting in uploaded state while no
// job is running. Their start task was lost, usually to a full task buffer.
// A duplicate task is harmless: the executor sweeps every uploaded document
// and runs as a no-op when another task already claimed them.
func (s *Service) recoverStranded(ctx context.Context) {
	all, err := s.docs.ListDocuments(ctx)
	if err != nil {
		s.logger.Error("Listing documents for recovery failed", "error", err)
		return
	}

	var stranded []string
	for _, doc := range all {
		if doc.Status == docModel.StatusUploaded {
			stranded = append(stranded, doc.Id)
		}
	}
	if len(stranded) == 0 {
		return
	}

	s.logger.Warn("Re-enqueueing stranded uploaded documents", "count", len(stranded))
	s.scheduler.ScheduleStart(stranded, "")
}

func (s *Service) reconcileJob(ctx context.Context, job docModel.IngestionJob) {
	log := s.logger.With("jobId", job.JobId)

	current, err := s.engine.GetIngestionJob(ctx, job.JobId)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			// The engine restarted and lost the job. Nothing will ever
			// finish it, so settle the documents now.
			log.Warn("Ingestion job lost by engine")
			s.settleJob(ctx, job, docModel.JobStatusFailed, "ingestion job lost by the engine")
			return
		}
		log.Error("Fetching ingestion job failed", "error", err)
		return
	}

	switch current.Status {
	case docModel.JobStatusSucceeded:
		s.settleJob(ctx, current, docModel.JobStatusSucceeded, "")

	case docModel.JobStatusFailed:
		detail := current.ErrorDetail
		if detail == "" {
			detail = "ingestion failed"
		}
		s.settleJob(ctx, current, docModel.JobStatusFailed, detail)

	case docModel.JobStatusRunning:
		if time.Since(job.StartedAt) > config.MaxIngestWait {
			log.Error("Ingestion job exceeded the maximum wait, giving up", "startedAt", job.StartedAt)
			s.settleJob(ctx, job, docModel.JobStatusFailed,
				fmt.Sprintf("ingestion did not finish within %s", config.MaxIngestWait))
		}
	}
}

func (s *Service) settleJob(ctx context.Context, job docModel.IngestionJob, status docModel.JobStatus, detail string) {
	for _, id := range job.DocumentIds {
		if status == docModel.JobStatusSucceeded {
			s.markIndexed(ctx, id)
		} else {
			s.markFailed(ctx, id, detail)
		}
	}

	job.Status = status
	job.ErrorDetail = detail
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		s.logger.Error("Persisting settled job failed", "jobId", job.JobId, "error", err)
	}
}
