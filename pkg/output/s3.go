package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/disintegration/imaging"
)

// DefaultUploadTimeout bounds a single upload
const DefaultUploadTimeout = 30 * time.Second

// ErrNoBucket is returned when publishing is configured without a bucket
var ErrNoBucket = errors.New("s3 bucket not configured")

// S3Config describes an S3-compatible bucket renders are published to
type S3Config struct {
	Endpoint  string // Empty uses the AWS endpoint for Region
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string // Prepended to every object key
	ACL       string // Canned ACL, e.g. "public-read"; empty leaves the bucket default
}

// S3Publisher uploads encoded renders to a bucket
type S3Publisher struct {
	client  s3iface.S3API
	config  S3Config
	timeout time.Duration
	logger  core.Logger
}

// NewS3Publisher opens a session for the configured bucket
func NewS3Publisher(config S3Config, logger core.Logger) (*S3Publisher, error) {
	if config.Bucket == "" {
		return nil, ErrNoBucket
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.Endpoint != ""),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), config, logger), nil
}

// NewS3PublisherWithClient publishes through an existing client
func NewS3PublisherWithClient(client s3iface.S3API, config S3Config, logger core.Logger) *S3Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &S3Publisher{
		client:  client,
		config:  config,
		timeout: DefaultUploadTimeout,
		logger:  logger,
	}
}

// SetTimeout changes the per-upload timeout
func (p *S3Publisher) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Key returns the object key a name is stored under
func (p *S3Publisher) Key(name string) string {
	if p.config.Prefix == "" {
		return name
	}
	return path.Join(p.config.Prefix, name)
}

// PublishImage encodes img and uploads it as name, returning the object key
func (p *S3Publisher) PublishImage(ctx context.Context, name string, img image.Image, format imaging.Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return "", err
	}

	key := p.Key(name)
	if err := p.Publish(ctx, key, buf.Bytes(), ContentType(format)); err != nil {
		return "", err
	}
	return key, nil
}

// Publish uploads data under key
func (p *S3Publisher) Publish(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if p.config.ACL != "" {
		input.ACL = aws.String(p.config.ACL)
	}

	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, p.config.Bucket, size)
	return nil
}
