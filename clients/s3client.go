package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3Config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/bookworm/config"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// coverPrefix is the key prefix under which review cover images are stored.
const coverPrefix = "covers/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewS3Client configures a new AWS S3 object storage client. A custom endpoint
// selects an S3-compatible store addressed with path-style URLs.
func NewS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
	awsCfg, err := s3Config.LoadDefaultConfig(ctx, s3Config.WithCredentialsProvider(creds), s3Config.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3ImageStore stores review cover images in a bucket and hands out their
// public URLs.
type S3ImageStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3ImageStore creates an image store writing to the configured bucket.
func NewS3ImageStore(client *s3.Client, cfg config.Config) *S3ImageStore {
	return &S3ImageStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3.Bucket,
		baseURL:  objectBaseURL(cfg),
	}
}

// objectBaseURL is the public URL prefix of every object in the bucket.
func objectBaseURL(cfg config.Config) string {
	if cfg.S3.Endpoint != "" {
		return strings.TrimRight(cfg.S3.Endpoint, "/") + "/" + cfg.S3.Bucket + "/"
	}
	return "https://" + cfg.S3.Bucket + ".s3." + cfg.S3.Region + ".amazonaws.com/"
}

// Upload saves an image under a random key and returns its URL.
func (s *S3ImageStore) Upload(ctx context.Context, body []byte, contentType string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := coverPrefix + id + imageExtensions[contentType]
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + key, nil
}

// Delete removes the object an image URL points at.
func (s *S3ImageStore) Delete(ctx context.Context, imageURL string) error {
	key, ok := s.objectKey(imageURL)
	if !ok {
		return fmt.Errorf("image %q is not stored in bucket %s", imageURL, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Owns reports whether imageURL points into the configured bucket.
func (s *S3ImageStore) Owns(imageURL string) bool {
	_, ok := s.objectKey(imageURL)
	return ok
}

func (s *S3ImageStore) objectKey(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, s.baseURL) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(imageURL, s.baseURL))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}
