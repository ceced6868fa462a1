package query

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/engine"
	"github.com/akolanti/DocGateway/internal/engine/vectorDB"
	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

const snippetLimit = 300

type Source struct {
	ContentSnippet    string
	DocumentReference string
	ConfidenceScore   float32
}

type Metadata struct {
	ModelId   string
	LatencyMs int64
}

type Answer struct {
	Answer   string
	Sources  []Source
	Metadata Metadata
}

type Service interface {
	Query(ctx context.Context, question string, topK int) (Answer, error)
}

type service struct {
	engine engine.Engine
	logger *logger_i.Logger
}

func NewService(eng engine.Engine) Service {
	return &service{
		engine: eng,
		logger: logger_i.NewLogger("Query Service"),
	}
}

// Query answers a question against the knowledge base. Retrieval is retried
// a couple of times because vector search hiccups are usually transient;
// generation is never retried, a second LLM call is expensive and the caller
// already waited once.
func (s *service) Query(ctx context.Context, question string, topK int) (Answer, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	start := time.Now()
	outcome := "error"
	defer func() { metrics.CaptureQueryMetrics(outcome, time.Since(start)) }()

	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, apperror.Validation("question is required")
	}
	if len(question) > config.MaxQuestionLength {
		return Answer{}, apperror.Validation("question exceeds the maximum length")
	}

	if topK <= 0 {
		topK = config.DefaultTopK
	}
	if topK > config.MaxTopK {
		topK = config.MaxTopK
	}

	matches, err := s.retrieveWithRetry(ctx, question, topK)
	if err != nil {
		log.Error("Retrieval failed", "error", err)
		return Answer{}, apperror.Upstream("retrieval is unavailable", err)
	}

	passages := make([]string, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, m.Content)
	}
	if len(matches) == 0 {
		log.Info("No passages retrieved, answering without context")
	}

	answer, err := s.engine.Generate(ctx, question, passages)
	if err != nil {
		log.Error("Generation failed", "error", err)
		return Answer{}, apperror.Upstream("generation is unavailable", err)
	}

	outcome = "success"
	return Answer{
		Answer:  answer,
		Sources: buildSources(matches),
		Metadata: Metadata{
			ModelId:   s.engine.ModelName(),
			LatencyMs: time.Since(start).Milliseconds(),
		},
	}, nil
}

func (s *service) retrieveWithRetry(ctx context.Context, question string, topK int) ([]vectorDB.Match, error) {
	var lastErr error

	for attempt := 0; attempt <= config.RetrieveRetryCount; attempt++ {
		if attempt > 0 {
			s.logger.Warn("Retrying retrieval", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.RetrieveRetryDelay):
			}
		}

		matches, err := s.engine.Retrieve(ctx, question, topK)
		if err == nil {
			return matches, nil
		}
		if apperror.IsKind(err, apperror.KindValidation) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func buildSources(matches []vectorDB.Match) []Source {
	sources := make([]Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, Source{
			ContentSnippet:    snippet(m.Content),
			DocumentReference: m.DocumentRef,
			ConfidenceScore:   m.Score,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].ConfidenceScore > sources[j].ConfidenceScore
	})
	return sources
}

func snippet(content string) string {
	if len(content) <= snippetLimit {
		return content
	}
	// Walk back to a rune boundary so the cut never produces invalid UTF-8.
	cut := snippetLimit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}
