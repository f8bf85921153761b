// Package storage releases stored assets (avatars, recipe images) once no
// entity references them any more.
package storage

import (
	"context"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
)

// AssetCleaner is notified after commit for every asset reference an entity
// stopped holding.
type AssetCleaner interface {
	Release(ctx context.Context, ref string) error
}

// S3API is the subset of the S3 client used here.
type S3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Cleaner struct {
	client S3API
	bucket string
}

func NewS3Cleaner(client S3API, bucket string) *S3Cleaner {
	return &S3Cleaner{client: client, bucket: bucket}
}

func (c *S3Cleaner) Release(ctx context.Context, ref string) error {
	key := ObjectKey(ref, c.bucket)
	if key == "" {
		return nil
	}
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "delete s3 object %s", key)
	}
	return nil
}

// ObjectKey turns an asset reference into an object key. References are
// either bare keys or URLs pointing into the bucket, virtual-hosted or
// path-style.
func ObjectKey(ref, bucket string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" {
		return strings.TrimPrefix(ref, "/")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket != "" && !strings.HasPrefix(u.Host, bucket+".") {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	return key
}

// Nop discards every release. Used when no bucket is configured.
type Nop struct{}

func (Nop) Release(context.Context, string) error { return nil }

// NewAssetCleaner picks the S3 cleaner when a bucket is configured.
func NewAssetCleaner(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (AssetCleaner, error) {
	if cfg.S3Bucket == "" {
		log.Info("no asset bucket configured, asset cleanup disabled")
		return Nop{}, nil
	}
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3Cleaner(s3Cfg.Client, s3Cfg.BucketName), nil
}
