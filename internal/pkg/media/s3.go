package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/apperr"
)

// S3Store keeps media in an S3-compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// NewS3Store builds the client from static credentials.
func NewS3Store(cfg config.MediaConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}
	opts := s3.Options{
		Region:                     cfg.Region,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: publicBase(cfg),
		maxBytes:  int64(cfg.MaxUploadMB) << 20,
		now:       time.Now,
	}, nil
}

func publicBase(cfg config.MediaConfig) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *S3Store) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (Asset, error) {
	if err := Validate(fh, s.maxBytes); err != nil {
		return Asset{}, err
	}
	key := path.Join(s.prefix, safeFolder(folder), objectName(fh.Filename, s.now()))

	src, err := fh.Open()
	if err != nil {
		return Asset{}, apperr.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(contentType(fh)),
		ContentLength: aws.Int64(fh.Size),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return Asset{}, apperr.Upstream("Failed to upload media", err)
	}
	return Asset{URL: s.publicURL + "/" + key, Ref: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return apperr.Upstream("Failed to delete media", err)
	}
	return nil
}
