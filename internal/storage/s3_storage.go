package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stepup/stepup-backend/pkg/logger"
)

// S3API is the subset of the S3 client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client   S3API
	bucket   string
	baseURL  string
	maxBytes int64
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string, maxBytes int64) *S3Storage {
	var cfg aws.Config
	var err error

	// Static credentials win; otherwise fall back to the default chain.
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, baseURL, maxBytes)
}

func NewS3StorageWithClient(client S3API, bucket, baseURL string, maxBytes int64) *S3Storage {
	return &S3Storage{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

func (s *S3Storage) Save(ctx context.Context, folder string, img Image) (string, error) {
	data, ext, err := readImage(img, s.maxBytes)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          newBody(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeFor(ext)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to bucket %s", key, s.bucket)
	}

	logger.Debug("Image uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(data),
	})
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *S3Storage) Delete(ctx context.Context, fileURL string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(fileURL, s.baseURL), "/")
	if key == "" {
		return fmt.Errorf("invalid image url %q", fileURL)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return errors.Wrapf(err, "failed to delete %s from bucket %s", key, s.bucket)
	}
	return nil
}
