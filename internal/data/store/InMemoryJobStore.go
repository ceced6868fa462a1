package store

import (
	"context"
	"sync"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

type InMemoryJobStore struct {
	mu     sync.RWMutex
	jobs   map[string]docModel.IngestionJob
	logger *logger_i.Logger
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs:   make(map[string]docModel.IngestionJob),
		logger: logger_i.NewLogger("InMem JobStore"),
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job docModel.IngestionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobId] = job
	return nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (docModel.IngestionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, found := s.jobs[jobId]
	return job, found
}

func (s *InMemoryJobStore) ListRunningJobs(ctx context.Context) ([]docModel.IngestionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	running := make([]docModel.IngestionJob, 0)
	for _, job := range s.jobs {
		if job.Status == docModel.JobStatusRunning {
			running = append(running, job)
		}
	}
	return running, nil
}
