package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/data/redisStore"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

const (
	jobKeyPrefix   = "ingestjob:"
	runningJobsKey = "ingestjobs:running"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if inner == nil {
		return nil
	}
	return &RedisJobStore{
		store:  inner,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job docModel.IngestionJob) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "jobId", job.JobId)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, jobKeyPrefix+job.JobId, data, config.RedisJobStoreTTL); err != nil {
		return err
	}

	//the running set is what the status poll walks
	if job.Status == docModel.JobStatusRunning {
		err = s.store.SetAdd(ctx, runningJobsKey, job.JobId)
	} else {
		err = s.store.SetRemove(ctx, runningJobsKey, job.JobId)
	}
	if err != nil {
		return err
	}
	log.Debug("Saved ingestion job", "status", job.Status)
	return nil
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (docModel.IngestionJob, bool) {
	var job docModel.IngestionJob
	val, err := s.store.Get(ctx, jobKeyPrefix+jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		s.logger.Error("Error reading ingestion job", "jobId", jobId, "error", err)
		return job, false
	}

	if err := json.Unmarshal([]byte(val), &job); err != nil {
		s.logger.Error("Corrupt ingestion job record", "jobId", jobId, "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) ListRunningJobs(ctx context.Context) ([]docModel.IngestionJob, error) {
	ids, err := s.store.SetMembers(ctx, runningJobsKey)
	if err != nil {
		return nil, err
	}

	jobs := make([]docModel.IngestionJob, 0, len(ids))
	for _, id := range ids {
		if job, found := s.GetJob(ctx, id); found {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func TestJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("test job store"),
	}
}
