package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisCache Redis 缓存提供者
type redisCache struct {
	client *redis.Client
	ctx    context.Context
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedis 创建 Redis 缓存提供者
func NewRedis(cfg RedisConfig) (Provider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &redisCache{
		client: client,
		ctx:    ctx,
	}, nil
}

// Set 设置缓存项
func (r *redisCache) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, key, data, expiration).Err()
}

// Get 获取缓存项
func (r *redisCache) Get(key string, dest interface{}) error {
	data, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Delete 删除缓存项
func (r *redisCache) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Exists 检查缓存项是否存在
func (r *redisCache) Exists(key string) (bool, error) {
	exists, err := r.client.Exists(r.ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Health 检查缓存健康状态
func (r *redisCache) Health() error {
	return r.client.Ping(r.ctx).Err()
}

// Close 关闭缓存连接
func (r *redisCache) Close() error {
	return r.client.Close()
}
