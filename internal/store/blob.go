package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNoContent marks a filename with no bytes behind it: the object is
// missing or empty.
var ErrNoContent = errors.New("no content for file")

// BlobSource fetches raw document bytes from object storage.
type BlobSource struct {
	client *minio.Client
	bucket string
}

type BlobConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewBlobSource(cfg BlobConfig) (*BlobSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &BlobSource{client: client, bucket: cfg.Bucket}, nil
}

// Fetch returns the object's bytes, or ErrNoContent when the object does not
// exist or is empty.
func (s *BlobSource) Fetch(ctx context.Context, filename string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", filename, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", filename, ErrNoContent)
		}
		return nil, fmt.Errorf("read object %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoContent)
	}
	return data, nil
}

// Ping verifies the bucket is reachable, for readiness checks.
func (s *BlobSource) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage ping: %w", err)
	}
	if !ok {
		return fmt.Errorf("storage ping: bucket %s does not exist", s.bucket)
	}
	return nil
}
