package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store stores media in an S3 bucket, optionally fronted by a CDN
type S3Store struct {
	client  s3API
	bucket  string
	region  string
	baseURL string
	prefix  string
	now     func() time.Time
}

// NewS3Store creates an S3-backed media store using the default AWS credential chain
func NewS3Store(ctx context.Context, region, bucket, baseURL, prefix string) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("AWS_BUCKET is required for the s3 media provider")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Store(s3.NewFromConfig(cfg), region, bucket, baseURL, prefix), nil
}

func newS3Store(client s3API, region, bucket, baseURL, prefix string) *S3Store {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		now:     time.Now,
	}
}

// Upload puts the file under {prefix}/{year}/{month}/{name}.
func (s *S3Store) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil || req.Body == nil {
		return nil, errors.New("upload request has no body")
	}

	name := cleanName(req.FileName)
	if req.UniqueName {
		name = uniqueName(req.FileName)
	}
	key := s.objectKey(name)

	contentType := req.ContentType
	if contentType == "" {
		contentType = getContentType(filepath.Ext(name))
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        req.Body,
		ContentType: aws.String(contentType),

		// Stored objects never change
		CacheControl: aws.String("max-age=31536000, immutable"),

		Metadata: map[string]string{
			"original-filename": req.FileName,
			"upload-timestamp":  s.now().UTC().Format(time.RFC3339),
		},
	}
	if req.Size > 0 {
		input.ContentLength = aws.Int64(req.Size)
	}
	if len(req.Tags) > 0 {
		input.Tagging = aws.String(encodeTags(req.Tags))
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			return &UploadResult{
				StatusCode: respErr.HTTPStatusCode(),
				Key:        key,
				Message:    err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		StatusCode: http.StatusOK,
		URL:        s.baseURL + "/" + key,
		Name:       name,
		Key:        key,
		Size:       req.Size,
	}, nil
}

// Delete deletes an object from the bucket
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// CheckAccess verifies that we can access the S3 bucket
func (s *S3Store) CheckAccess(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", s.bucket, err)
	}

	return nil
}

func (s *S3Store) objectKey(name string) string {
	now := s.now().UTC()
	key := fmt.Sprintf("%d/%02d/%s", now.Year(), now.Month(), name)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// encodeTags renders tags as an S3 tag set query string: "a=true&b=true".
func encodeTags(tags []string) string {
	values := url.Values{}
	for _, tag := range tags {
		values.Set(tag, "true")
	}
	return values.Encode()
}
