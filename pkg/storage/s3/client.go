package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/carbonlabs/carbon-backend/pkg/config"
	"github.com/carbonlabs/carbon-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client talks to an S3-compatible object store (Cloudflare R2 in production)
// and issues presigned write URLs for product images.
type Client struct {
	api           *awss3.Client
	presigner     *awss3.PresignClient
	bucket        string
	publicBaseURL string
	uploadExpiry  time.Duration
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds the S3 client from static credentials and the account
// endpoint, then verifies the bucket is reachable.
func NewClient(ctx context.Context, cfg config.S3Config, logg *logger.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket name is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("s3 credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	endpoint := cfg.EndpointURL()
	api := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	client := &Client{
		api:           api,
		presigner:     awss3.NewPresignClient(api),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		uploadExpiry:  cfg.UploadURLExpiry,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("s3 health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "s3 client initialized")
	}

	return client, nil
}

// PresignPut issues a time-limited write URL for one object key in the
// configured bucket. The object itself only exists once the holder of the URL
// performs the PUT within the validity window.
func (c *Client) PresignPut(ctx context.Context, objectKey string) (string, time.Duration, error) {
	if c == nil || c.presigner == nil {
		return "", 0, errors.New("s3 client not initialized")
	}
	if objectKey == "" {
		return "", 0, errors.New("object key is required")
	}

	req, err := c.presigner.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	}, awss3.WithPresignExpires(c.uploadExpiry))
	if err != nil {
		return "", 0, fmt.Errorf("presign put object: %w", err)
	}

	return req.URL, c.uploadExpiry, nil
}

// PublicURL derives the stable retrieval URL for an object key. Pure string
// assembly, no I/O.
func (c *Client) PublicURL(objectKey string) string {
	return c.publicBaseURL + "/" + objectKey
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// Ping verifies credentials and bucket reachability.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return errors.New("s3 client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := c.api.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", c.bucket, err)
	}
	return nil
}
