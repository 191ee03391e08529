package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// DefaultRegion is what S3-compatible providers accept when the region
	// is derived from the endpoint
	DefaultRegion = "automatic"

	multipartThreshold = 64 * 1024 * 1024 // 64MB
	partSize           = 8 * 1024 * 1024  // 8MB
)

// PutObjectRequest describes a single object upload
type PutObjectRequest struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

// Client is the subset of S3 the uploader needs
type Client interface {
	PutObject(ctx context.Context, req *PutObjectRequest) error
}

// Config holds the endpoint and temporary credentials for the bucket
type Config struct {
	Endpoint        string
	Region          string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// AWSClient implements Client with aws-sdk-go-v2
type AWSClient struct {
	s3Client           *s3.Client
	uploader           *manager.Uploader
	multipartThreshold int64
}

// NewClient creates a new S3 client for an S3-compatible endpoint
func NewClient(ctx context.Context, cfg Config) (*AWSClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("credentials are required")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.SessionToken,
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = cfg.UsePathStyle
		// Most S3-compatible stores reject the default CRC32 trailers
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &AWSClient{
		s3Client: s3Client,
		uploader: manager.NewUploader(s3Client, func(u *manager.Uploader) {
			u.PartSize = partSize
		}),
		multipartThreshold: multipartThreshold,
	}, nil
}

// PutObject uploads a single object, switching to multipart for large bodies
func (c *AWSClient) PutObject(ctx context.Context, req *PutObjectRequest) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(req.Bucket),
		Key:    aws.String(req.Key),
		Body:   bytes.NewReader(req.Body),
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}

	if int64(len(req.Body)) > c.multipartThreshold {
		if _, err := c.uploader.Upload(ctx, input); err != nil {
			return fmt.Errorf("failed to upload object: %w", err)
		}
		return nil
	}

	input.ContentLength = aws.Int64(int64(len(req.Body)))
	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	return nil
}
