package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harane/toolshed/cache/memory"
	"github.com/harane/toolshed/cache/redis"
	"github.com/harane/toolshed/config"
)

// memoryProvider 内存缓存的 Provider 适配
type memoryProvider struct {
	*memory.Memory
}

func (p *memoryProvider) Get(ctx context.Context, key string, dest interface{}) error {
	err := p.Memory.Get(ctx, key, dest)
	if err == memory.ErrCacheMiss {
		return ErrCacheMiss
	}
	return err
}

func (p *memoryProvider) Name() string {
	return "memory"
}

// redisProvider Redis 缓存的 Provider 适配
type redisProvider struct {
	*redis.Redis
}

func (p *redisProvider) Get(ctx context.Context, key string, dest interface{}) error {
	err := p.Redis.Get(ctx, key, dest)
	if err == redis.ErrCacheMiss {
		return ErrCacheMiss
	}
	return err
}

func (p *redisProvider) Name() string {
	return "redis"
}

// NewProvider 根据配置创建缓存提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "redis":
		client, err := redis.NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		log.Printf("Cache provider 'redis' initialized (%s)", cfg.CacheRedisAddr)
		return &redisProvider{Redis: client}, nil

	case "memory", "":
		mem, err := memory.NewMemory(memory.Config{
			NumCounters: 100000,
			MaxCost:     64 << 20, // 64MB
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		log.Println("Cache provider 'memory' initialized")
		return &memoryProvider{Memory: mem}, nil

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

// ToolListTTL 工具列表缓存有效期
func ToolListTTL(cfg *config.Config) time.Duration {
	if cfg.CacheToolListTTL <= 0 {
		return time.Minute
	}
	return time.Duration(cfg.CacheToolListTTL) * time.Second
}
