package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"userdata-server/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service uploads database snapshots to object storage.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new snapshot service.
func NewService(client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Upload copies the database file at dbPath into the configured bucket and
// returns the object name. The bucket is created on first use.
func (s *Service) Upload(ctx context.Context, dbPath string) (string, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return "", fmt.Errorf("cannot snapshot database file: %w", err)
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check snapshot bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create snapshot bucket: %w", err)
		}
		s.logger.Info("Created snapshot bucket", zap.String("bucket", s.bucket))
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("cannot read database file: %w", err)
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	object := fmt.Sprintf("%s-%s.db", base, time.Now().UTC().Format("20060102T150405Z"))

	if _, err := s.client.PutObject(ctx, s.bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/vnd.sqlite3",
	}); err != nil {
		return "", fmt.Errorf("snapshot upload failed: %w", err)
	}

	s.logger.Info("Snapshot uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
		zap.Int64("bytes", info.Size()),
	)
	return object, nil
}
