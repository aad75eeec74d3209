package cache

import (
	"fmt"
	"log"

	"github.com/galeries/galeries-server/config"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Factory 缓存工厂
type Factory struct {
	provider Provider
	name     string
}

// NewFactory 根据配置创建缓存提供者
func NewFactory(cfg *config.Config) (*Factory, error) {
	switch cfg.CacheType {
	case "redis":
		redisCfg := RedisConfig{
			Addr:     cfg.CacheRedisAddr,
			Password: cfg.CacheRedisPassword,
			DB:       cfg.CacheRedisDB,
		}
		// cache_options 允许覆盖连接参数
		if opts := viper.GetStringMap("cache_options"); len(opts) > 0 {
			if err := mapstructure.Decode(opts, &redisCfg); err != nil {
				return nil, fmt.Errorf("failed to decode cache options: %w", err)
			}
		}

		provider, err := NewRedis(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		log.Printf("Cache provider 'redis' initialized (%s)", redisCfg.Addr)
		return &Factory{provider: provider, name: "redis"}, nil

	case "memory", "":
		memCfg := DefaultMemoryConfig()
		if opts := viper.GetStringMap("cache_options"); len(opts) > 0 {
			if err := mapstructure.Decode(opts, &memCfg); err != nil {
				return nil, fmt.Errorf("failed to decode cache options: %w", err)
			}
		}

		provider, err := NewMemory(memCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory cache: %w", err)
		}
		log.Println("Cache provider 'memory' initialized")
		return &Factory{provider: provider, name: "memory"}, nil

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

// Get 获取缓存提供者
func (f *Factory) Get() Provider {
	return f.provider
}

// Name 返回缓存提供者名称
func (f *Factory) Name() string {
	return f.name
}

// Close 关闭缓存提供者
func (f *Factory) Close() error {
	if f.provider != nil {
		return f.provider.Close()
	}
	return nil
}
