package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/customHttpClient"
	"github.com/akolanti/DocGateway/pkg/logger_i"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the durable blob backend. The service never proxies file
// bytes on upload: clients write directly with a presigned, key-scoped URL.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Bucket() string
	Healthy(ctx context.Context) error
}

var (
	instance *minioStore
	once     sync.Once
	logger   *logger_i.Logger
)

type minioStore struct {
	client *minio.Client
	bucket string
}

func GetMinioStore(ctx context.Context, cfg *config.Settings) ObjectStore {
	once.Do(func() {
		logger = logger_i.NewLogger("ObjectStore")
		client, err := minio.New(cfg.ObjectStoreEndpoint, &minio.Options{
			Creds:     credentials.NewStaticV4(cfg.ObjectStoreAccessKey, cfg.ObjectStoreSecretKey, ""),
			Secure:    cfg.ObjectStoreUseSSL,
			Transport: customHttpClient.Transport,
		})
		if err != nil {
			logger.Error("could not instantiate object store client", "endpoint", cfg.ObjectStoreEndpoint, "error", err)
			return
		}
		instance = &minioStore{client: client, bucket: cfg.Bucket}
		logger.Info("Object store client created", "bucket", cfg.Bucket)
	})

	if instance == nil {
		return nil
	}
	return instance
}

func (s *minioStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *minioStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *minioStore) Bucket() string {
	return s.bucket
}

func (s *minioStore) Healthy(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		// Reachable endpoint, but every presigned upload would 404.
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
