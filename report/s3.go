package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

// S3API defines the S3 operations used by S3Sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads reports to a bucket.
type S3Sink struct {
	api    S3API
	bucket string
}

// NewS3Sink creates a sink over an existing S3API.
func NewS3Sink(api S3API, bucket string) (*S3Sink, error) {
	if api == nil {
		return nil, fmt.Errorf("s3 api cannot be nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	return &S3Sink{api: api, bucket: bucket}, nil
}

// NewS3SinkFromConfig creates a sink from an AWS configuration.
func NewS3SinkFromConfig(cfg aws.Config, bucket string) (*S3Sink, error) {
	return NewS3Sink(s3.NewFromConfig(cfg), bucket)
}

// Put implements Sink. The content type is sniffed from data.
func (s *S3Sink) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
