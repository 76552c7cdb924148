package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds the settings for the resume bucket.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
}

// ResumeStore uploads resume files to S3 and derives their public URLs.
// The client is a long-lived shared handle, stateless per call.
type ResumeStore struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Client creates an S3 client with static credentials.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}

func NewResumeStore(client *s3.Client, cfg S3Config) *ResumeStore {
	return &ResumeStore{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}
}

// Upload writes the stream under objectName, overwriting any existing
// object, and returns the public URL.
func (s *ResumeStore) Upload(ctx context.Context, r io.Reader, objectName, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", classify(err)
	}

	return s.ObjectURL(objectName), nil
}

// Exists probes objectName with a HEAD request.
func (s *ResumeStore) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, classify(err)
	}
	return true, nil
}

// ObjectURL derives the bucket/region public address of an object.
func (s *ResumeStore) ObjectURL(objectName string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectName)
}
