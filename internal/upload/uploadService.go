package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocGateway/internal/apperror"
	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/akolanti/DocGateway/internal/objectstore"
	"github.com/akolanti/DocGateway/pkg/logger_i"
	"github.com/google/uuid"
)

// UploadGrant is everything a client needs to push the file bytes directly to
// object storage.
type UploadGrant struct {
	DocumentId string
	UploadURL  string
	StorageKey string
	Bucket     string
	ExpiresIn  int
}

type Service interface {
	RequestUpload(ctx context.Context, filename string, contentType string, sizeBytes int64) (UploadGrant, error)
}

type service struct {
	docs    docModel.DocumentStore
	objects objectstore.ObjectStore
	cfg     *config.Settings
	logger  *logger_i.Logger
}

func NewService(docs docModel.DocumentStore, objects objectstore.ObjectStore, cfg *config.Settings) Service {
	return &service{
		docs:    docs,
		objects: objects,
		cfg:     cfg,
		logger:  logger_i.NewLogger("Upload Service"),
	}
}

// RequestUpload validates the request, registers a pending document and mints
// a presigned PUT url. Validation happens before any credential is issued, so
// a rejected request leaves no trace.
func (s *service) RequestUpload(ctx context.Context, filename string, contentType string, sizeBytes int64) (UploadGrant, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := s.validate(filename, contentType, sizeBytes); err != nil {
		return UploadGrant{}, err
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(filename))
	key := s.cfg.DocumentPrefix + id + ext

	doc := docModel.Document{
		Id:               id,
		StorageKey:       key,
		OriginalFilename: filename,
		ContentType:      contentType,
		SizeBytes:        sizeBytes,
		Status:           docModel.StatusPending,
		UploadedAt:       time.Now().UTC(),
	}

	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		log.Error("Saving pending document failed", "error", err)
		return UploadGrant{}, apperror.Internal("could not register document", err)
	}

	url, err := s.objects.PresignPut(ctx, key, time.Duration(s.cfg.PresignedExpirySeconds)*time.Second)
	if err != nil {
		log.Error("Presigning upload url failed", "documentId", id, "error", err)

		// Roll back so a failed grant leaves no pending record behind.
		if delErr := s.docs.DeleteDocument(ctx, id); delErr != nil {
			log.Error("Rollback of pending document failed", "documentId", id, "error", delErr)
		}
		return UploadGrant{}, apperror.Upstream("object storage unavailable", err)
	}

	log.Info("Upload grant issued", "documentId", id, "key", key)
	return UploadGrant{
		DocumentId: id,
		UploadURL:  url,
		StorageKey: key,
		Bucket:     s.objects.Bucket(),
		ExpiresIn:  s.cfg.PresignedExpirySeconds,
	}, nil
}

func (s *service) validate(filename string, contentType string, sizeBytes int64) error {
	if strings.TrimSpace(filename) == "" {
		return apperror.Validation("fileName is required")
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		return apperror.Validation("fileName must not contain path separators")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.cfg.ExtensionAllowed(ext) {
		return apperror.Validation(fmt.Sprintf("file type %s is not supported", ext))
	}

	if contentType != "" && !s.cfg.ContentTypeAllowed(contentType) {
		return apperror.Validation(fmt.Sprintf("content type %s is not supported", contentType))
	}

	if sizeBytes <= 0 {
		return apperror.Validation("fileSize must be a positive number")
	}
	if sizeBytes > s.cfg.MaxFileSizeBytes {
		return apperror.Validation(fmt.Sprintf("file exceeds the maximum size of %d bytes", s.cfg.MaxFileSizeBytes))
	}
	return nil
}
