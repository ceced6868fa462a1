package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/engine/extract"
	"github.com/akolanti/DocGateway/internal/metrics"
)

func (s *service) runJob(ctx context.Context, job docModel.IngestionJob, docs []docModel.Document) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()

	jobCtx, cancel := context.WithTimeout(ctx, config.MaxIngestWait)
	defer cancel()

	log := s.logger.With("jobId", job.JobId)

	for _, doc := range docs {
		if err := s.ingestDocument(jobCtx, doc); err != nil {
			log.Error("Ingestion job failed", "documentId", doc.Id, "error", err)
			s.finishJob(job.JobId, docModel.JobStatusFailed, fmt.Sprintf("document %s: %v", doc.Id, err))
			return
		}
		log.Info("Document indexed", "documentId", doc.Id)
	}

	s.finishJob(job.JobId, docModel.JobStatusSucceeded, "")
}

func (s *service) ingestDocument(ctx context.Context, doc docModel.Document) error {
	path, cleanup, err := s.fetchToTemp(ctx, doc)
	if err != nil {
		return err
	}
	defer cleanup()

	pages, err := extract.File(path)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no extractable content in %s", doc.OriginalFilename)
	}

	chunks := extract.BuildChunks(doc, pages)
	return s.batchIngest(ctx, chunks)
}

// fetchToTemp downloads the stored object into a temp file so the extractors
// can work on a seekable path. The caller must invoke cleanup.
func (s *service) fetchToTemp(ctx context.Context, doc docModel.Document) (string, func(), error) {
	body, err := s.objects.Fetch(ctx, doc.StorageKey)
	if err != nil {
		return "", nil, fmt.Errorf("fetching object %s failed: %w", doc.StorageKey, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "ingest-*"+filepath.Ext(doc.OriginalFilename))
	if err != nil {
		return "", nil, err
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("downloading object %s failed: %w", doc.StorageKey, err)
	}
	tmp.Close()

	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}

func (s *service) batchIngest(ctx context.Context, chunks []extract.Chunk) error {
	batchSize := 100
	isHugeDataSet := len(chunks) > 1000000

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := make([]extract.Chunk, 0, end-i)
		var texts []string
		for _, c := range chunks[i:end] {
			if c.Content != "" {
				currentBatch = append(currentBatch, c)
				texts = append(texts, c.Content)
			}
		}
		if len(currentBatch) == 0 {
			continue
		}

		vectors, err := s.embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		err = s.index.UpsertBatch(ctx, config.VectorCollectionName, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
