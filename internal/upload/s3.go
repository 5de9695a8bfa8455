package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"homefinder/internal/config"
)

const s3KeyPrefix = "properties"

// S3Store uploads images to an S3-compatible bucket with public-read ACL.
type S3Store struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

// Ensure S3Store implements Store
var _ Store = (*S3Store)(nil)

// NewS3Store builds a store from bucket settings. Static credentials are used when
// both keys are set, otherwise the SDK's default chain applies.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = defaultPublicURL(cfg)
	}
	return NewS3StoreWithClient(s3.New(sess), cfg.Bucket, publicURL), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client s3iface.S3API, bucket, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func defaultPublicURL(cfg config.S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s%s", s3KeyPrefix, uuid.NewString(), strings.ToLower(filepath.Ext(sanitize(filename))))

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Remove deletes the object behind a URL returned by Save.
func (s *S3Store) Remove(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.publicURL+"/")
	if key == url || key == "" {
		return fmt.Errorf("not a url of bucket %s: %q", s.bucket, url)
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object: %w", err)
	}
	return nil
}
