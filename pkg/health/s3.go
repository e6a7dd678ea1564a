package health

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3HeadBucketAPI is the S3 operation needed for the storage check.
type S3HeadBucketAPI interface {
	HeadBucket(ctx context.Context, params *s3aws.HeadBucketInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error)
}

// S3Checker checks object storage reachability.
type S3Checker struct {
	client S3HeadBucketAPI
	bucket string
}

// NewS3Checker creates a new S3 health checker for the given bucket.
func NewS3Checker(client S3HeadBucketAPI, bucket string) *S3Checker {
	return &S3Checker{client: client, bucket: bucket}
}

// Name returns "s3".
func (c *S3Checker) Name() string {
	return "s3"
}

// Check issues a HeadBucket request against the configured bucket.
func (c *S3Checker) Check(ctx context.Context) Result {
	_, err := c.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}
	return Result{Status: StatusUp}
}
