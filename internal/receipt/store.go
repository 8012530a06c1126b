package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"restaurante/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store persists a rendered document and returns where it can be found.
// Delete removes a document saved under name; a missing one is not an error.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// FileName is boleta_<timestamp>_<short id>.pdf. The id keeps two receipts
// issued in the same second apart.
func FileName(at time.Time) string {
	return fmt.Sprintf("boleta_%s_%s.pdf", at.Format("20060102_150405"), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// LocalStore writes documents under a directory.
type LocalStore struct {
	dir    string
	logger *logger.Logger
}

func NewLocalStore(dir string, log *logger.Logger) *LocalStore {
	return &LocalStore{dir: dir, logger: log.WithComponent("receipt_store")}
}

func (s *LocalStore) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	s.logger.Info("Receipt written", "path", path, "bytes", len(data))
	return path, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove receipt: %w", err)
	}
	s.logger.Info("Receipt removed", "path", path)
	return nil
}

// ObjectClient is the part of *s3.Client the store uses.
type ObjectClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures an S3 compatible bucket. Endpoint is optional for AWS
// and required for R2 or MinIO.
type S3Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	Prefix        string
}

// S3Store uploads documents to a bucket.
type S3Store struct {
	client  ObjectClient
	bucket  string
	baseURL string
	prefix  string
	logger  *logger.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, log *logger.Logger) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg, log), nil
}

func NewS3StoreWithClient(client ObjectClient, cfg S3Config, log *logger.Logger) *S3Store {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "boletas"
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		logger:  log.WithComponent("receipt_store"),
	}
}

func (s *S3Store) key(name string) string {
	return s.prefix + "/" + filepath.Base(name)
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	key := s.key(name)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete receipt %s: %w", key, err)
	}
	s.logger.Info("Receipt deleted", "bucket", s.bucket, "key", key)
	return nil
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt %s: %w", key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	if s.baseURL != "" {
		location = s.baseURL + "/" + key
	}
	s.logger.Info("Receipt uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return location, nil
}
