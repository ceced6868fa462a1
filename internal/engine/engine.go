package engine

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine/embedding"
	"github.com/akolanti/DocGateway/internal/engine/llm"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
	"github.com/akolanti/DocGateway/internal/objectstore"
	"github.com/akolanti/DocGateway/pkg/logger_i"
	"github.com/google/uuid"
)

// Description is a point-in-time snapshot of the knowledge base.
type Description struct {
	KnowledgeBaseId string
	Name            string
	Status          string
	DataSourceId    string
	ChunksIndexed   int64
	ChunkCountExact bool
	EmbeddingModel  string
	GenerationModel string
}

// Engine is the indexing and retrieval backend. It is the single authority on
// whether an ingestion job may start: callers that race on StartIngestionJob
// get a conflict error back and must retry later.
type Engine interface {
	StartIngestionJob(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error)
	GetIngestionJob(ctx context.Context, jobId string) (docModel.IngestionJob, error)

	Retrieve(ctx context.Context, question string, topK int) ([]vectorDB.Match, error)
	Generate(ctx context.Context, question string, passages []string) (string, error)

	DeleteDocument(ctx context.Context, documentId string) error
	Describe(ctx context.Context) Description
	ModelName() string
}

type service struct {
	objects  objectstore.ObjectStore
	index    vectorDB.Index
	embedder embedding.Embedder
	provider llm.Provider
	cfg      *config.Settings
	logger   *logger_i.Logger

	mu        sync.Mutex
	jobs      map[string]docModel.IngestionJob
	activeJob string
}

// NewService constructor
func NewService(objects objectstore.ObjectStore, index vectorDB.Index, em embedding.Embedder, provider llm.Provider, cfg *config.Settings) Engine {
	return &service{
		objects:  objects,
		index:    index,
		embedder: em,
		provider: provider,
		cfg:      cfg,
		logger:   logger_i.NewLogger("Knowledge Engine"),
		jobs:     make(map[string]docModel.IngestionJob),
	}
}

func (s *service) StartIngestionJob(ctx context.Context, docs []docModel.Document) (docModel.IngestionJob, error) {
	if len(docs) == 0 {
		return docModel.IngestionJob{}, apperror.Validation("no documents to ingest")
	}

	s.mu.Lock()
	if s.activeJob != "" && s.jobs[s.activeJob].Status == docModel.JobStatusRunning {
		s.mu.Unlock()
		return docModel.IngestionJob{}, apperror.Conflict("an ingestion job is already in progress")
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Id)
	}

	job := docModel.IngestionJob{
		JobId:       uuid.New().String(),
		DocumentIds: ids,
		StartedAt:   time.Now().UTC(),
		Status:      docModel.JobStatusRunning,
	}
	s.jobs[job.JobId] = job
	s.activeJob = job.JobId
	s.mu.Unlock()

	// The job outlives the request that started it.
	go s.runJob(context.WithoutCancel(ctx), job, docs)

	s.logger.Info("Ingestion job started", "jobId", job.JobId, "documents", len(docs))
	return job, nil
}

func (s *service) GetIngestionJob(ctx context.Context, jobId string) (docModel.IngestionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobId]
	if !ok {
		return docModel.IngestionJob{}, apperror.NotFound("unknown ingestion job: " + jobId)
	}
	return job, nil
}

func (s *service) finishJob(jobId string, status docModel.JobStatus, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.jobs[jobId]
	job.Status = status
	job.ErrorDetail = detail
	s.jobs[jobId] = job

	if s.activeJob == jobId {
		s.activeJob = ""
	}
}

func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	return s.index.DeleteByDocument(ctx, documentId)
}

func (s *service) ModelName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.ModelName()
}

func (s *service) Describe(ctx context.Context) Description {
	count, exact := s.index.CountPoints(ctx)

	return Description{
		KnowledgeBaseId: s.cfg.KnowledgeBaseID,
		Name:            s.cfg.KnowledgeBaseName,
		Status:          "ACTIVE",
		DataSourceId:    s.cfg.DataSourceID,
		ChunksIndexed:   count,
		ChunkCountExact: exact,
		EmbeddingModel:  config.GoogleEmbeddingModel,
		GenerationModel: s.ModelName(),
	}
}
