// Package s3storage hands out presigned S3 upload URLs for order photos and
// certificates. File bytes never pass through the service.
package s3storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultUploadTTL = 15 * time.Minute

// Config holds the bucket and credentials. A zero UploadTTL means
// DefaultUploadTTL.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UploadTTL       time.Duration
}

// Storage presigns PUT uploads into one bucket.
type Storage struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	now       func() time.Time
}

// New builds the S3 client. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errs.NewValueIsRequiredError("s3 bucket")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errs.NewValueIsRequiredError("aws region")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(awsConfig), cfg.Bucket, cfg.UploadTTL), nil
}

// NewWithClient wraps an existing client, mainly for tests against a local
// S3 endpoint.
func NewWithClient(client *s3.Client, bucket string, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	return &Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		ttl:       ttl,
		now:       time.Now,
	}
}

// PresignUpload signs a PUT for key. The returned FileURL is the object URL
// without the signature; it is what gets stored on the order.
func (s *Storage) PresignUpload(ctx context.Context, key, contentType string) (ports.PresignedUpload, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ports.PresignedUpload{}, errs.NewValueIsRequiredError("object key")
	}
	if strings.TrimSpace(contentType) == "" {
		return ports.PresignedUpload{}, errs.NewValueIsRequiredError("content type")
	}

	issuedAt := s.now()
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return ports.PresignedUpload{}, fmt.Errorf("presign upload: %w", err)
	}

	fileURL, err := objectURL(req.URL)
	if err != nil {
		return ports.PresignedUpload{}, err
	}

	return ports.PresignedUpload{
		UploadURL: req.URL,
		FileURL:   fileURL,
		ExpiresAt: issuedAt.Add(s.ttl).UTC(),
	}, nil
}

func objectURL(presigned string) (string, error) {
	u, err := url.Parse(presigned)
	if err != nil {
		return "", fmt.Errorf("parse presigned url: %w", err)
	}
	if u.Host == "" {
		return "", errors.New("presigned url has no host")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
