package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the store uses. Uploads go through the
// transfer manager so multipart form files need not be seekable.
type S3API interface {
	manager.UploadAPIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client    S3API
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	endpoint  string
	cdnDomain string
	region    string
}

// NewS3Store serves URLs from cdnDomain when set, from a path-style endpoint
// (LocalStack) when set, and from the virtual-hosted bucket URL otherwise.
func NewS3Store(client S3API, bucket, prefix, endpoint, cdnDomain, region string) *S3Store {
	return &S3Store{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		endpoint:  strings.TrimRight(endpoint, "/"),
		cdnDomain: strings.TrimRight(cdnDomain, "/"),
		region:    region,
	}
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3Store) Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	key := s.key(name)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        body,
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from s3: %w", err)
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	switch {
	case s.cdnDomain != "":
		domain := s.cdnDomain
		if !strings.HasPrefix(domain, "http") {
			domain = "https://" + domain
		}
		return fmt.Sprintf("%s/%s", domain, key)
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

func (s *S3Store) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if s.endpoint != "" && s.cdnDomain == "" {
		key = strings.TrimPrefix(key, s.bucket+"/")
	}
	if key == "" {
		return "", fmt.Errorf("invalid image url %q", rawURL)
	}
	return key, nil
}
