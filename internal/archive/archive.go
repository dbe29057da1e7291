package archive

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"quizmaker/internal/logger"
)

// Client archives uploaded source documents to a Cloudflare R2 bucket.
// Archival is best-effort: it runs after a successful generation and never
// affects the response.
type Client struct {
	s3Client *s3.Client
	bucket   string
}

// NewClient configures an R2 client from environment variables. It returns
// (nil, nil) when the R2 variables are not fully set, which disables
// archival without failing startup.
func NewClient(ctx context.Context) (*Client, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	bucket := os.Getenv("R2_BUCKET_NAME")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("R2_SECRET_ACCESS_KEY")

	if accountID == "" || bucket == "" || accessKeyID == "" || secretAccessKey == "" {
		logger.Warn("R2 environment variables not fully configured, document archival disabled")
		return nil, nil
	}

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	return &Client{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucket,
	}, nil
}

// StoreDocument uploads the raw document bytes under uploads/<uuid>/<name>.
func (c *Client) StoreDocument(ctx context.Context, filename string, data []byte) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("archive client not initialized")
	}

	key := fmt.Sprintf("uploads/%s/%s", uuid.New().String(), filepath.Base(filename))

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document to R2 (key: %s): %w", key, err)
	}

	return key, nil
}
