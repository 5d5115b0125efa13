package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProofStore persists proof-of-collection photos and returns their public URL
type ProofStore interface {
	UploadProof(ctx context.Context, pickupID string, photo *models.ProofPhoto) (string, error)
}

// s3API is the subset of *s3.Client used by the uploader
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client       s3API
	bucket       string
	region       string
	publicDomain string
	logger       logger.Logger
}

// NewS3Uploader builds an uploader from cfg. It returns nil, nil when no bucket is configured.
func NewS3Uploader(cfg *models.Config, log logger.Logger) (*S3Uploader, error) {
	if cfg.S3Bucket == "" {
		log.Info("S3 bucket not configured, proof photos will not be stored")
		return nil, nil
	}

	region := cfg.S3Region
	if region == "" {
		region = cfg.AWSRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:       client,
		bucket:       cfg.S3Bucket,
		region:       region,
		publicDomain: cfg.S3PublicDomain,
		logger:       log,
	}, nil
}

// UploadProof stores photo under proofs/<pickupID>/ and returns its URL
func (u *S3Uploader) UploadProof(ctx context.Context, pickupID string, photo *models.ProofPhoto) (string, error) {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := proofKey(pickupID, photo.Filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(photo.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload proof photo to S3: %w", err)
	}

	u.logger.Infof("Uploaded proof photo for pickup %s to %s", pickupID, key)
	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.publicDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimSuffix(u.publicDomain, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

func proofKey(pickupID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("proofs/%s/%s%s", pickupID, utils.GenerateUUID(), ext)
}
