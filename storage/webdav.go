package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/galeries/galeries-server/config"
	"github.com/studio-b12/gowebdav"
)

// webdavStorage WebDAV 存储实现
// WebDAV 没有原生预签名，签名 URL 退化为带凭据的直链
type webdavStorage struct {
	client   *gowebdav.Client
	baseURL  string
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg *config.Config) (Provider, error) {
	if cfg.WebdavEndpoint == "" {
		return nil, fmt.Errorf("webdav endpoint is required")
	}

	rootPath := strings.Trim(cfg.WebdavRoot, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.WebdavEndpoint, cfg.WebdavUsername, cfg.WebdavPassword)

	// 验证连接
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testWebDAVConnection(ctx, client, rootPath); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return &webdavStorage{
		client:   client,
		baseURL:  strings.TrimRight(cfg.WebdavEndpoint, "/"),
		rootPath: rootPath,
	}, nil
}

// testWebDAVConnection 测试 WebDAV 连接
func testWebDAVConnection(ctx context.Context, client *gowebdav.Client, rootPath string) error {
	done := make(chan error, 1)
	go func() {
		_, err := client.ReadDir(rootPath)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// fullPath 生成完整的 WebDAV 路径
func (s *webdavStorage) fullPath(fileName string) string {
	fileName = strings.TrimLeft(fileName, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + fileName
	}
	return "/" + fileName
}

// SaveWithContext 保存对象
func (s *webdavStorage) SaveWithContext(ctx context.Context, fileName string, file io.Reader, size int64) error {
	fullPath := s.fullPath(fileName)

	if dir := path.Dir(fullPath); dir != "/" && dir != "." {
		if err := s.client.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create webdav directory '%s': %w", dir, err)
		}
	}

	if err := s.client.WriteStream(fullPath, file, 0644); err != nil {
		return fmt.Errorf("failed to write object '%s' to webdav: %w", fileName, err)
	}
	return nil
}

// GetWithContext 获取对象流
func (s *webdavStorage) GetWithContext(ctx context.Context, fileName string) (io.ReadCloser, error) {
	stream, err := s.client.ReadStream(s.fullPath(fileName))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object '%s' from webdav: %w", fileName, err)
	}
	return stream, nil
}

// DeleteWithContext 删除对象
func (s *webdavStorage) DeleteWithContext(ctx context.Context, fileName string) error {
	if err := s.client.Remove(s.fullPath(fileName)); err != nil && !gowebdav.IsErrNotFound(err) {
		return fmt.Errorf("failed to delete object '%s' from webdav: %w", fileName, err)
	}
	return nil
}

// SignedURL 生成直链
func (s *webdavStorage) SignedURL(ctx context.Context, fileName string, expiry time.Duration) (string, error) {
	if _, err := s.client.Stat(s.fullPath(fileName)); err != nil {
		if gowebdav.IsErrNotFound(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat object '%s': %w", fileName, err)
	}
	return s.baseURL + s.fullPath(url.PathEscape(fileName)), nil
}

// Exists 检查对象是否存在
func (s *webdavStorage) Exists(ctx context.Context, fileName string) (bool, error) {
	_, err := s.client.Stat(s.fullPath(fileName))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *webdavStorage) Health(ctx context.Context) error {
	return testWebDAVConnection(ctx, s.client, s.rootPath)
}

// Name 返回存储名称
func (s *webdavStorage) Name() string {
	return "webdav"
}
