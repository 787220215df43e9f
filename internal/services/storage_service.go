// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tapedeck/tapedeck-backend/internal/config"
)

// ImageStore is the object-store surface the submission engine depends on.
// Upload returns the public URL of the stored object; Remove takes that same
// URL back and deletes the underlying object.
type ImageStore interface {
	Upload(data []byte, originalName, contentType string) (string, error)
	Remove(imageURL string) error
}

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
	imageFolder  = "variants"
)

var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// Upload validates and stores one variant image, returning its public URL.
func (s *StorageService) Upload(data []byte, originalName, contentType string) (string, error) {
	if int64(len(data)) > maxImageSize {
		return "", fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", len(data), maxImageSize)
	}

	fileExt := strings.ToLower(filepath.Ext(originalName))
	allowed := false
	for _, allowedExt := range allowedImageExts {
		if fileExt == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("file type %s is not allowed", fileExt)
	}

	if !isValidImageType(data) {
		return "", fmt.Errorf("invalid image file")
	}

	key := s.generateFileName(originalName)

	if s.s3Client == nil {
		// Local development: no object store, serve from the local uploads dir
		return fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key), nil
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.getS3URL(key), nil
}

// Remove deletes the object behind a stored image URL. The key is parsed
// from the URL path, matching how Upload builds public URLs.
func (s *StorageService) Remove(imageURL string) error {
	key := KeyFromURL(imageURL)
	if key == "" {
		return fmt.Errorf("cannot extract storage key from URL %q", imageURL)
	}

	if s.s3Client == nil {
		logrus.WithField("key", key).Debug("No object store configured, skipping delete")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (s *StorageService) generateFileName(originalName string) string {
	id := uuid.New()
	ext := filepath.Ext(originalName)

	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	return fmt.Sprintf("%s/%s", imageFolder, filename)
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

// KeyFromURL recovers the storage key from a public object URL: everything
// after the host, e.g. "variants/20260101_ab12cd34.jpg".
func KeyFromURL(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}

func isValidImageType(buffer []byte) bool {
	// Check for JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// Check for PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// Check for WebP (RIFF....WEBP)
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
