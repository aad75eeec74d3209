package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("object not found")

// Provider 存储提供者接口 - 依赖倒置的核心抽象
// 核心层只依赖 store/signedUrl/delete 三个能力；
// 数据库是唯一事实来源，对象存储只是随行的副本
type Provider interface {
	// SaveWithContext 保存对象到存储
	SaveWithContext(ctx context.Context, fileName string, file io.Reader, size int64) error

	// GetWithContext 从存储获取对象
	GetWithContext(ctx context.Context, fileName string) (io.ReadCloser, error)

	// DeleteWithContext 从存储删除对象
	DeleteWithContext(ctx context.Context, fileName string) error

	// SignedURL 生成限时访问 URL，对象缺失或签名失败返回错误
	SignedURL(ctx context.Context, fileName string, expiry time.Duration) (string, error)

	// Exists 检查对象是否存在
	Exists(ctx context.Context, fileName string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
