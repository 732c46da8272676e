package core

import (
	"context"
	"time"

	"github.com/harane/toolshed/cache"
	"github.com/harane/toolshed/internal/app"
	"github.com/harane/toolshed/storage"
)

const healthCheckTimeout = 2 * time.Second

// checkDatabaseHealth 检查数据库连通性
func checkDatabaseHealth(repos *app.Repositories) string {
	if repos == nil || repos.Accounts == nil {
		return "not configured"
	}

	sqlDB, err := repos.Accounts.DB().DB()
	if err != nil {
		return "error: " + err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// checkCacheHealth 检查缓存连通性
func checkCacheHealth(provider cache.Provider) string {
	if provider == nil {
		return "not configured"
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	if _, err := provider.Exists(ctx, "health:probe"); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// checkStorageHealth 检查存储后端健康状态
func checkStorageHealth(factory *storage.Factory) string {
	if factory == nil {
		return "not configured"
	}
	provider := factory.GetDefault()
	if provider == nil {
		return "not configured"
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
