// Package report stores generated report PDFs in S3-compatible storage
// and hands out short-lived download links.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"nytro_assessment_backend/platform/config"
)

// DownloadURLTTL is the expiration time for presigned report links.
const DownloadURLTTL = 15 * time.Minute

// Storage persists report PDFs.
type Storage interface {
	StoreReport(ctx context.Context, assessmentID uuid.UUID, pdf []byte) (string, error)
	DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error)
	FetchReport(ctx context.Context, fileKey string) ([]byte, error)
}

// MinIOStorage implements Storage using MinIO.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates the storage client and ensures the report bucket
// exists.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStorage{client: client, bucket: cfg.GetMinioBucketReportPDFs()}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIOStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// StoreReport uploads the PDF and returns its object key. The key is
// deterministic per assessment so re-scoring overwrites the stale report.
func (s *MinIOStorage) StoreReport(ctx context.Context, assessmentID uuid.UUID, pdf []byte) (string, error) {
	fileKey := fmt.Sprintf("assessments/%s/report.pdf", assessmentID)
	_, err := s.client.PutObject(ctx, s.bucket, fileKey, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// DownloadURL creates a presigned GET link for a stored report.
func (s *MinIOStorage) DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error) {
	expiresAt := time.Now().Add(DownloadURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, DownloadURLTTL, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), expiresAt, nil
}

// FetchReport reads a stored report back, for attaching to emails.
func (s *MinIOStorage) FetchReport(ctx context.Context, fileKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", fileKey, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", fileKey, err)
	}
	return buf.Bytes(), nil
}

// NoopStorage is used when object storage is not configured. Reports are
// still generated on demand, just never persisted.
type NoopStorage struct{}

func (NoopStorage) StoreReport(ctx context.Context, assessmentID uuid.UUID, pdf []byte) (string, error) {
	return "", nil
}

func (NoopStorage) DownloadURL(ctx context.Context, fileKey string) (string, time.Time, error) {
	return "", time.Time{}, fmt.Errorf("report storage is not configured")
}

func (NoopStorage) FetchReport(ctx context.Context, fileKey string) ([]byte, error) {
	return nil, fmt.Errorf("report storage is not configured")
}
