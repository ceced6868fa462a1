package docModel

import (
	"context"
	"errors"
	"time"
)

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusIndexed    DocumentStatus = "indexed"
	StatusFailed     DocumentStatus = "failed"
)

// CanTransition encodes the forward-only lifecycle. failed is terminal and
// reachable once the object exists (uploaded or processing); indexed is
// terminal except for delete, which removes the record entirely.
func CanTransition(from, to DocumentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusUploaded
	case StatusUploaded:
		return to == StatusProcessing || to == StatusFailed
	case StatusProcessing:
		return to == StatusIndexed || to == StatusFailed
	default:
		return false
	}
}

func ValidStatus(s DocumentStatus) bool {
	switch s {
	case StatusPending, StatusUploaded, StatusProcessing, StatusIndexed, StatusFailed:
		return true
	}
	return false
}

type Document struct {
	Id               string         `json:"id"`
	StorageKey       string         `json:"storage_key"`
	OriginalFilename string         `json:"original_filename"`
	ContentType      string         `json:"content_type"`
	SizeBytes        int64          `json:"size_bytes"`
	Status           DocumentStatus `json:"status"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	IndexedAt        time.Time      `json:"indexed_at,omitempty"` //zero until indexed
	ErrorDetail      string         `json:"error_detail,omitempty"`
}

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

type IngestionJob struct {
	JobId       string    `json:"job_id"`
	DocumentIds []string  `json:"document_ids"`
	StartedAt   time.Time `json:"started_at"`
	Status      JobStatus `json:"status"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// ErrStaleTransition signals a conditional update whose expected predecessor
// status no longer matches, usually a duplicate object-store event or an
// event/poll race. Callers treat it as a no-op.
var ErrStaleTransition = errors.New("document status does not match expected predecessor")

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// UpdateStatus applies from->to conditionally: when the stored status is
	// not `from` it returns ErrStaleTransition and changes nothing. mutate,
	// when non-nil, runs on the document inside the same conditional write.
	UpdateStatus(ctx context.Context, id string, from, to DocumentStatus, mutate func(*Document)) (Document, error)
}

type JobStore interface {
	SaveJob(ctx context.Context, job IngestionJob) error
	GetJob(ctx context.Context, jobId string) (IngestionJob, bool)
	ListRunningJobs(ctx context.Context) ([]IngestionJob, error)
}
