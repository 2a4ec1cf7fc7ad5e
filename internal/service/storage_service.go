package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cquest_backend/internal/config"
	"cquest_backend/internal/util"
	"cquest_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageService stores uploaded files (avatars, lesson content) on minio or
// the local filesystem, by configuration.
type StorageService struct {
	cfg    config.StorageConfig
	client *minio.Client
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	s := &StorageService{cfg: cfg}

	if cfg.Type == util.StorageMinio {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		s.client = client

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		exists, err := client.BucketExists(ctx, cfg.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket: %w", err)
			}
			logger.Log.Info("created storage bucket", zap.String("bucket", cfg.MinioBucket))
		}
	}

	return s, nil
}

// Upload stores the file under the given prefix and returns its object key.
func (s *StorageService) Upload(ctx context.Context, file *multipart.FileHeader, prefix string) (string, error) {
	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	if s.client != nil {
		_, err = s.client.PutObject(ctx, s.cfg.MinioBucket, objectName, src, file.Size,
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return "", fmt.Errorf("failed to upload to minio: %w", err)
		}
		return objectName, nil
	}

	localPath := filepath.Join(s.cfg.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return objectName, nil
}

// URL resolves an object key to a fetchable location. Minio objects get a
// presigned GET link; local files a static path.
func (s *StorageService) URL(ctx context.Context, objectName string) (string, error) {
	if s.client != nil {
		u, err := s.client.PresignedGetObject(ctx, s.cfg.MinioBucket, objectName, 24*time.Hour, nil)
		if err != nil {
			return "", err
		}
		return u.String(), nil
	}
	return "/static/" + strings.TrimPrefix(objectName, "/"), nil
}

func (s *StorageService) Delete(ctx context.Context, objectName string) error {
	if s.client != nil {
		return s.client.RemoveObject(ctx, s.cfg.MinioBucket, objectName, minio.RemoveObjectOptions{})
	}
	return os.Remove(filepath.Join(s.cfg.LocalPath, objectName))
}
