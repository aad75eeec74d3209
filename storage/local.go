package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// localStorage 本地文件存储实现（开发环境）
// 签名 URL 用 HMAC 伪签名，由图片下载路由校验
type localStorage struct {
	absBasePath string
	signSecret  []byte
	baseURL     string
}

// NewLocalStorage 创建本地存储提供者
func NewLocalStorage(basePath, signSecret, baseURL string) (Provider, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	return &localStorage{
		absBasePath: absPath + string(os.PathSeparator),
		signSecret:  []byte(signSecret),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}, nil
}

// isValidFileName 拒绝可疑文件名
func isValidFileName(fileName string) bool {
	if fileName == "" || strings.Contains(fileName, "..") {
		return false
	}
	return !strings.HasPrefix(fileName, "/")
}

// resolve 生成并校验最终路径，防止目录穿越
func (s *localStorage) resolve(fileName string) (string, error) {
	if !isValidFileName(fileName) {
		return "", fmt.Errorf("invalid file name: %s", fileName)
	}
	fullPath := filepath.Join(s.absBasePath, fileName)
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return "", fmt.Errorf("invalid file path, potential directory traversal: %s", fileName)
	}
	return fullPath, nil
}

// SaveWithContext 保存对象到本地存储
func (s *localStorage) SaveWithContext(ctx context.Context, fileName string, file io.Reader, size int64) error {
	dstPath, err := s.resolve(fileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for '%s': %w", dstPath, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// GetWithContext 从本地存储获取对象
func (s *localStorage) GetWithContext(ctx context.Context, fileName string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(fileName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", fileName, err)
	}

	return file, nil
}

// DeleteWithContext 从本地存储删除对象
func (s *localStorage) DeleteWithContext(ctx context.Context, fileName string) error {
	fullPath, err := s.resolve(fileName)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file '%s': %w", fileName, err)
	}
	return nil
}

// SignedURL 生成 HMAC 伪签名 URL
func (s *localStorage) SignedURL(ctx context.Context, fileName string, expiry time.Duration) (string, error) {
	fullPath, err := s.resolve(fileName)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat file '%s': %w", fileName, err)
	}

	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	expires := time.Now().Add(expiry).Unix()
	sig := s.Sign(fileName, expires)

	return fmt.Sprintf("%s/images/%s?expires=%d&signature=%s", s.baseURL, fileName, expires, sig), nil
}

// Sign 计算 fileName+expires 的 HMAC-SHA256 签名
func (s *localStorage) Sign(fileName string, expires int64) string {
	mac := hmac.New(sha256.New, s.signSecret)
	mac.Write([]byte(fileName + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 校验伪签名和有效期
func (s *localStorage) VerifySignature(fileName string, expires int64, signature string) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := s.Sign(fileName, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Exists 检查对象是否存在
func (s *localStorage) Exists(ctx context.Context, fileName string) (bool, error) {
	fullPath, err := s.resolve(fileName)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *localStorage) Health(ctx context.Context) error {
	_, err := os.Stat(s.absBasePath)
	return err
}

// Name 返回存储名称
func (s *localStorage) Name() string {
	return "local"
}
