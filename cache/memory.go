package cache

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto"
)

// memoryCache 进程内缓存提供者（ristretto）
type memoryCache struct {
	client *ristretto.Cache
}

// MemoryConfig 进程内缓存配置
type MemoryConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

// DefaultMemoryConfig 默认进程内缓存配置
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		NumCounters: 100000,
		MaxCost:     64 << 20, // 64MB
		BufferItems: 64,
	}
}

// NewMemory 创建进程内缓存提供者
func NewMemory(cfg MemoryConfig) (Provider, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &memoryCache{client: cache}, nil
}

// Set 设置缓存项，统一按 JSON 字节存储，与 Redis 提供者行为对齐
func (m *memoryCache) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if m.client.SetWithTTL(key, data, int64(len(data)), expiration) {
		// 等待值被实际写入，测试依赖写后读
		m.client.Wait()
	}
	return nil
}

// Get 获取缓存项
func (m *memoryCache) Get(key string, dest interface{}) error {
	value, found := m.client.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

// Delete 删除缓存项
func (m *memoryCache) Delete(key string) error {
	m.client.Del(key)
	return nil
}

// Exists 检查缓存项是否存在
func (m *memoryCache) Exists(key string) (bool, error) {
	_, found := m.client.Get(key)
	return found, nil
}

// Health 检查缓存健康状态
func (m *memoryCache) Health() error {
	return nil
}

// Close 关闭缓存连接
func (m *memoryCache) Close() error {
	m.client.Close()
	return nil
}
