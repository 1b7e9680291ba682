package engine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"inventory-hub/internal/domain"
)

var _ domain.ResultPresigner = (*S3Presigner)(nil)

// S3Presigner generates time-limited GET URLs for query result objects.
type S3Presigner struct {
	presignClient *s3.PresignClient
	expiry        time.Duration
}

// NewS3Presigner creates a presigner using the same AWS config as Athena.
func NewS3Presigner(cfg aws.Config, expiry time.Duration) *S3Presigner {
	return newS3Presigner(s3.NewFromConfig(cfg), expiry)
}

func newS3Presigner(client *s3.Client, expiry time.Duration) *S3Presigner {
	return &S3Presigner{
		presignClient: s3.NewPresignClient(client),
		expiry:        expiry,
	}
}

// PresignResult returns a presigned GET URL for an s3:// result location.
func (p *S3Presigner) PresignResult(ctx context.Context, location string) (string, error) {
	bucket, key, err := ParseS3Path(location)
	if err != nil {
		return "", err
	}

	result, err := p.presignClient.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(p.expiry),
	)
	if err != nil {
		return "", fmt.Errorf("presign GetObject for %q: %w", location, err)
	}
	return result.URL, nil
}

// ParseS3Path extracts bucket and key from an "s3://bucket/path/to/file" URI.
func ParseS3Path(s3Path string) (bucket, key string, err error) {
	u, err := url.Parse(s3Path)
	if err != nil {
		return "", "", fmt.Errorf("parse S3 path %q: %w", s3Path, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("expected s3:// scheme, got %q in %q", u.Scheme, s3Path)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("empty bucket in S3 path %q", s3Path)
	}
	if key == "" {
		return "", "", fmt.Errorf("empty key in S3 path %q", s3Path)
	}
	return bucket, key, nil
}
