package sinks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
)

// ObjectPutter is the part of *s3.Client the bucket sink uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type BucketWriter struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewBucketWriter builds an S3 client from the default AWS chain. Static
// keys and a custom endpoint (for S3-compatible stores) override it.
func NewBucketWriter(ctx context.Context, cfg config.BucketSinkConfig) (*BucketWriter, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("bucket: bucket_name is required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bucket: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewBucketWriterWithClient(client, cfg.BucketName, cfg.Prefix), nil
}

func NewBucketWriterWithClient(client ObjectPutter, bucket, prefix string) *BucketWriter {
	return &BucketWriter{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (w *BucketWriter) Write(ctx context.Context, result records.Result) error {
	key := path.Join(w.prefix, objectName(result, w.now(), "json"))
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(result.Contents),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			attributeType: result.Attributes[attributeType],
		},
	})
	if err != nil {
		return fmt.Errorf("bucket: put %s: %w", key, err)
	}
	return nil
}
