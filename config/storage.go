package config

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info for archived scan images
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// LoadAWSConfig loads AWS credentials from the environment or shared config
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Config initializes the S3 client. A nil config is returned when no bucket is configured.
func NewS3Config(awsCfg aws.Config, bucket string) *S3Config {
	if bucket == "" {
		return nil
	}
	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: bucket,
	}
}

// NewRekognitionClient initializes the label-detection client
func NewRekognitionClient(awsCfg aws.Config) *rekognition.Client {
	return rekognition.NewFromConfig(awsCfg)
}

// PutImage uploads an image under the given object key
func (s *S3Config) PutImage(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return nil
}
