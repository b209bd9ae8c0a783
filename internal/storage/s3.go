package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates the manifest object.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	UseSSL    bool
}

// S3Store keeps the manifest as a single object in an S3 compatible bucket.
type S3Store struct {
	client   *minio.Client
	bucket   string
	key      string
	region   string
	initOnce sync.Once
	initErr  error
}

var _ interfaces.ManifestStore = (*S3Store)(nil)

// NewS3Store validates cfg and builds the client. No request is made until
// the first Load or Save.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("storage: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, errors.New("storage: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	key := strings.TrimLeft(strings.TrimSpace(cfg.Key), "/")
	if key == "" {
		key = "content.json"
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: bucket, key: key, region: region}, nil
}

// Key returns the object key of the manifest.
func (s *S3Store) Key() string {
	return s.key
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) Load(ctx context.Context) ([]byte, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("storage: ensure bucket %s: %w", s.bucket, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateS3Error(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateS3Error(err)
	}
	return data, nil
}

func (s *S3Store) Save(ctx context.Context, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("storage: ensure bucket %s: %w", s.bucket, err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("storage: put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func translateS3Error(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return interfaces.ErrManifestNotFound
	}
	return fmt.Errorf("storage: get object: %w", err)
}
