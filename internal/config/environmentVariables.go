package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion task buffer limit
	BufferLimit = 100

	//worker pool
	MaxWorkerCount    int64 = 10
	MinWorkerCount    int64 = 1
	IdleWorkerTimeout       = 1 * time.Minute

	//deferred retry for job-start conflicts
	IngestRetryBaseDelay   = 2 * time.Second
	IngestRetryMaxDelay    = 2 * time.Minute
	IngestRetryMaxAttempts = 8

	//status polling
	JobPollInterval   = 15 * time.Second
	EngineCallTimeout = 30 * time.Second
	MaxIngestWait     = 1 * time.Hour

	//upload policy defaults
	DefaultMaxFileSizeMB          = 100
	DefaultPresignedExpirySeconds = 900
	DefaultDocumentPrefix         = "documents/"

	//query policy
	DefaultTopK        = 5
	MaxTopK            = 25
	MaxQuestionLength  = 2000
	RetrieveRetryCount = 2
	RetrieveRetryDelay = 300 * time.Millisecond

	//vector index
	EmbeddingOutputDimensionality int32 = 1536
	VectorCollectionName                = "kb-documents"
	QdrantHost                          = "127.0.0.1"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//llm + embeddings
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"

	ModelContext = "You are a knowledge base assistant. Answer only from the provided document context. If the context does not contain the answer, say you don't know."

	//estimate used when the index does not report exact chunk counts
	ChunksPerDocumentEstimate = 5

	//http transport pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisDocumentStore = 0
	RedisJobStore      = 1

	RedisDocumentStoreTTL = 0 * time.Second //documents do not expire
	RedisJobStoreTTL      = 24 * time.Hour
)

// Settings holds the values that must come from the environment. Everything
// here is read once at startup; Validate fails fast when the required
// knowledge base identifiers are missing.
type Settings struct {
	KnowledgeBaseID   string
	KnowledgeBaseName string
	DataSourceID      string

	Bucket                 string
	DocumentPrefix         string
	AllowedExtensions      []string
	AllowedContentTypes    []string
	MaxFileSizeBytes       int64
	PresignedExpirySeconds int

	ObjectStoreEndpoint  string
	ObjectStoreAccessKey string
	ObjectStoreSecretKey string
	ObjectStoreUseSSL    bool

	LLMProvider  string //"gemini" or "openai"
	GeminiAPIKey string
	OpenAIAPIKey string

	AuthToken    string
	NoAuthBypass bool

	CORSAllowOrigin string
}

func Load() *Settings {
	s := &Settings{
		KnowledgeBaseID:   os.Getenv("KNOWLEDGE_BASE_ID"),
		KnowledgeBaseName: envOr("KNOWLEDGE_BASE_NAME", "DocGateway Knowledge Base"),
		DataSourceID:      os.Getenv("DATA_SOURCE_ID"),

		Bucket:                 os.Getenv("DOCUMENT_BUCKET"),
		DocumentPrefix:         envOr("DOCUMENT_PREFIX", DefaultDocumentPrefix),
		AllowedExtensions:      splitList(envOr("ALLOWED_FILE_EXTENSIONS", "pdf,docx,doc,txt,md,csv,json")),
		AllowedContentTypes:    splitList(envOr("ALLOWED_CONTENT_TYPES", "application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/msword,text/plain,text/markdown,text/csv,application/json")),
		MaxFileSizeBytes:       int64(envInt("MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB)) * 1024 * 1024,
		PresignedExpirySeconds: envInt("PRESIGNED_URL_EXPIRY_SECONDS", DefaultPresignedExpirySeconds),

		ObjectStoreEndpoint:  envOr("OBJECT_STORE_ENDPOINT", "127.0.0.1:9000"),
		ObjectStoreAccessKey: os.Getenv("OBJECT_STORE_ACCESS_KEY"),
		ObjectStoreSecretKey: os.Getenv("OBJECT_STORE_SECRET_KEY"),
		ObjectStoreUseSSL:    envOr("OBJECT_STORE_USE_SSL", "false") == "true",

		LLMProvider:  envOr("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		AuthToken:    os.Getenv("API_AUTH_TOKEN"),
		NoAuthBypass: envOr("NO_AUTH_BYPASS", "false") == "true",

		CORSAllowOrigin: envOr("CORS_ALLOW_ORIGIN", "*"),
	}
	return s
}

// Validate enforces the fail-fast contract: the service refuses to start
// without the identifiers the knowledge engine and object store need.
func (s *Settings) Validate() error {
	var missing []string
	if s.KnowledgeBaseID == "" {
		missing = append(missing, "KNOWLEDGE_BASE_ID")
	}
	if s.DataSourceID == "" {
		missing = append(missing, "DATA_SOURCE_ID")
	}
	if s.Bucket == "" {
		missing = append(missing, "DOCUMENT_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if s.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}
	if s.PresignedExpirySeconds <= 0 {
		return fmt.Errorf("PRESIGNED_URL_EXPIRY_SECONDS must be positive")
	}
	if s.LLMProvider != "gemini" && s.LLMProvider != "openai" {
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai, got %q", s.LLMProvider)
	}
	return nil
}

// ExtensionAllowed reports whether a filename extension (without dot) is in
// the upload allow-list.
func (s *Settings) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range s.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *Settings) ContentTypeAllowed(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	//strip parameters like "; charset=utf-8"
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	for _, allowed := range s.AllowedContentTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, strings.TrimPrefix(p, "."))
		}
	}
	return out
}
