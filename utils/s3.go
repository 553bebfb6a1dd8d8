package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

// InitS3 prepares the S3 client. Photo archival is optional; when the
// bucket or region is not configured the caller skips the upload.
func InitS3(ctx context.Context) error {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		return fmt.Errorf("no AWS region configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	s3Client = s3.NewFromConfig(cfg)
	return nil
}

func S3Configured() bool {
	return s3Client != nil && os.Getenv("S3_BUCKET") != ""
}

// UploadMealPhoto stores a decoded meal photo and returns its object URL.
func UploadMealPhoto(ctx context.Context, data []byte, contentType string, userID uint) (string, error) {
	if !S3Configured() {
		return "", fmt.Errorf("S3 not configured")
	}
	ext := ".jpg"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "jpeg" {
		ext = "." + parts[1]
	}
	bucket := os.Getenv("S3_BUCKET")
	key := fmt.Sprintf("meal-photos/%d-%d%s", userID, time.Now().UnixNano(), ext)

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// DecodeBase64Image splits a "data:<mime>;base64,<data>" payload.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("invalid base64 image")
	}
	meta := strings.TrimPrefix(parts[0], "data:")
	contentType := strings.SplitN(meta, ";", 2)[0]

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return data, contentType, nil
}
