package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/pkg/logger"
)

// s3API is the slice of the S3 client the backend needs.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Backend keeps one JSON object per profile. Group writes replace the whole
// object; expiry of abandoned profiles is left to bucket lifecycle rules.
type S3Backend struct {
	client s3API
	bucket string
	prefix string
	locks  stripedLock
	now    func() time.Time
}

func NewS3Backend(ctx context.Context, cfg config.S3Config) (*S3Backend, error) {
	var awsCfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
	}

	return newS3Backend(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newS3Backend(client s3API, bucket, prefix string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (b *S3Backend) objectKey(profileID string) string {
	return path.Join(b.prefix, profileID+profileFileExt)
}

func (b *S3Backend) read(ctx context.Context, profileID string) (*profileDocument, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(profileID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return decodeDocument(nil)
		}
		return nil, fmt.Errorf("s3 get profile failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read profile failed: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		logger.Warn("Discarding unreadable profile object", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return decodeDocument(nil)
	}
	return doc, nil
}

func (b *S3Backend) Load(ctx context.Context, profileID string, keys []string) (map[string]string, error) {
	doc, err := b.read(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return doc.pick(keys), nil
}

// Save serialises writers of this process only; two processes writing the
// same profile race like two browser tabs do.
func (b *S3Backend) Save(ctx context.Context, profileID string, set map[string]string, remove []string) error {
	unlock := b.locks.lock(profileID)
	defer unlock()

	doc, err := b.read(ctx, profileID)
	if err != nil {
		return err
	}
	doc.apply(set, remove, b.now())

	if len(doc.Records) == 0 {
		_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(b.objectKey(profileID)),
		})
		if err != nil {
			return fmt.Errorf("s3 delete profile failed: %w", err)
		}
		return nil
	}

	data, err := doc.encode()
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.objectKey(profileID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put profile failed: %w", err)
	}
	return nil
}
