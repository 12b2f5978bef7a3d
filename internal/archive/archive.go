// Package archive keeps a copy of every uploaded import file.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Store interface {
	// Put stores body under a fresh key derived from name and returns the key.
	Put(ctx context.Context, name, contentType string, body []byte) (string, error)
}

// Nop discards uploads. It is used when no bucket is configured.
type Nop struct{}

func (Nop) Put(context.Context, string, string, []byte) (string, error) { return "", nil }

// New returns an S3 store when S3_BUCKET is set, Nop otherwise.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.ArchiveEnabled() {
		return Nop{}, nil
	}
	return NewS3Store(ctx, cfg)
}

type S3Store struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

// NewS3Store builds a client with static credentials. S3_ENDPOINT points it
// at MinIO or another S3 compatible server.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3Store{client: client, bucket: cfg.S3Bucket, now: time.Now}, nil
}

func (s *S3Store) Put(ctx context.Context, name, contentType string, body []byte) (string, error) {
	key := StorageKey(s.now(), name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", name, err)
	}
	return key, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StorageKey returns imports/YYYY/M/D/<uuid>-<name>.
func StorageKey(d time.Time, name string) string {
	base := unsafeKeyChars.ReplaceAllString(filepath.Base(name), "_")
	if base == "" || base == "." || base == "_" {
		base = "upload"
	}
	return fmt.Sprintf("imports/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), base)
}
