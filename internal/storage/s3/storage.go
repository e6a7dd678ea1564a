// Package s3 stores ticket images in S3 or an S3-compatible service.
package s3

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

const pngContentType = "image/png"

// Client is the subset of S3 operations used by the storage.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
}

// Config contains the storage settings.
type Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // For S3-compatible services like MinIO
	ForcePathStyle bool   // Required for MinIO and some S3-compatible services
	KeyPrefix      string // Prepended to every stored object key
}

// Storage implements the image store on S3.
type Storage struct {
	client Client
	cfg    Config
}

// Option configures the storage.
type Option func(*options)

type options struct {
	client Client
}

// WithClient sets a pre-configured S3 client, primarily for tests.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// New creates an S3 storage instance.
func New(ctx context.Context, cfg Config, opts ...Option) (*Storage, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		c, err := NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewClient builds an S3 client from the storage config. Exposed so callers
// can share one client between the storage and health probes.
func NewClient(ctx context.Context, cfg Config) (*s3aws.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return s3aws.NewFromConfig(awsCfg, func(s3opts *s3aws.Options) {
		if cfg.Endpoint != "" {
			s3opts.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		s3opts.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// Store uploads the image under the given path. Failures are logged and
// reported as false; the caller decides whether the message is retried.
func (s *Storage) Store(ctx context.Context, image []byte, imagePath string) bool {
	key := imagePath
	if s.cfg.KeyPrefix != "" {
		key = path.Join(s.cfg.KeyPrefix, imagePath)
	}

	_, err := s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(pngContentType),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to store image",
			"bucket", s.cfg.Bucket,
			"key", key,
			"code", errorCode(err),
			slog.Any("error", err))
		return false
	}

	slog.InfoContext(ctx, "Stored image", "bucket", s.cfg.Bucket, "key", key)
	return true
}
