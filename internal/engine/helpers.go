package engine

import (
	"context"
	"time"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
	"github.com/akolanti/DocGateway/internal/metrics"
)

func (s *service) Retrieve(ctx context.Context, question string, topK int) ([]vectorDB.Match, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EngineCallTimeout)
	defer cancel()

	vector, err := s.executeEmbeddingStep(callCtx, question)
	if err != nil {
		return nil, err
	}

	matches, err := s.executeVectorSearchStep(callCtx, vector, topK)
	if err != nil {
		return nil, err
	}

	// Cosine scores can drift marginally outside [0,1] on some backends.
	for i := range matches {
		if matches[i].Score < 0 {
			matches[i].Score = 0
		}
		if matches[i].Score > 1 {
			matches[i].Score = 1
		}
	}
	return matches, nil
}

func (s *service) Generate(ctx context.Context, question string, passages []string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EngineCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.provider.Generate(callCtx, question, passages)
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

func (s *service) executeVectorSearchStep(ctx context.Context, vector []float32, topK int) ([]vectorDB.Match, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.index.Search(ctx, vector, topK)
}
