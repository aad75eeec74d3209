package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/galeries/galeries-server/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorage struct {
	client             *minio.Client
	bucketName         string
	presignedURLExpiry time.Duration
}

// parseDurationOrDefault 解析持续时间
func parseDurationOrDefault(durationStr string, defaultValue time.Duration) time.Duration {
	if durationStr == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultValue
	}
	return duration
}

// NewMinioStorage 创建 MinIO 存储提供者，bucket 不存在时自动创建
func NewMinioStorage(cfg *config.Config) (Provider, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
		DisableCompression:    true,
	}

	if cfg.MinioUseSSL {
		transport.TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, ""),
		Secure:    cfg.MinioUseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket '%s' exists: %w", cfg.MinioBucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.MinioBucketName, err)
		}
		log.Printf("Successfully created bucket: %s", cfg.MinioBucketName)
	}

	return &minioStorage{
		client:             client,
		bucketName:         cfg.MinioBucketName,
		presignedURLExpiry: parseDurationOrDefault(cfg.MinioSignedURLExpiry, 24*time.Hour),
	}, nil
}

// SaveWithContext 将对象上传到 MinIO
func (s *minioStorage) SaveWithContext(ctx context.Context, fileName string, file io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucketName, fileName, file, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object '%s' to minio: %w", fileName, err)
	}
	return nil
}

// GetWithContext 获取对象流
func (s *minioStorage) GetWithContext(ctx context.Context, fileName string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, fileName, minio.GetObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object stream from minio for '%s': %w", fileName, err)
	}
	return obj, nil
}

// DeleteWithContext 删除对象
func (s *minioStorage) DeleteWithContext(ctx context.Context, fileName string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, fileName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s' from minio: %w", fileName, err)
	}
	return nil
}

// SignedURL 生成预签名访问 URL
func (s *minioStorage) SignedURL(ctx context.Context, fileName string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.presignedURLExpiry
	}

	// 对象不存在时签名仍会"成功"，必须先探测
	if _, err := s.client.StatObject(ctx, s.bucketName, fileName, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat object '%s': %w", fileName, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, fileName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object '%s': %w", fileName, err)
	}
	return u.String(), nil
}

// Exists 检查对象是否存在
func (s *minioStorage) Exists(ctx context.Context, fileName string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, fileName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *minioStorage) Health(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}

// Name 返回存储名称
func (s *minioStorage) Name() string {
	return "minio"
}
