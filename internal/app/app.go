package app

import (
	"fmt"

	"github.com/harane/toolshed/cache"
	"github.com/harane/toolshed/config"
	"github.com/harane/toolshed/database"
	"github.com/harane/toolshed/database/repo/accounts"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
	"github.com/harane/toolshed/internal/identify"
	"github.com/harane/toolshed/internal/photos"
	toolsvc "github.com/harane/toolshed/internal/tools"
	"github.com/harane/toolshed/storage"
	"github.com/harane/toolshed/utils"
)

// Repositories 仓库集合
type Repositories struct {
	Accounts *accounts.Repository
	Devices  *accounts.DeviceRepository
	Tools    *toolsrepo.Repository
}

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config          *config.Config
	databaseFactory *database.Factory
	storageFactory  *storage.Factory
	cacheProvider   cache.Provider
	repositories    *Repositories

	photoService *photos.Service
	toolService  *toolsvc.Service
	identifier   identify.Identifier
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

func (c *Container) Init() error {
	utils.LogIfDev("Initializing DI container...")

	if err := c.initDatabaseFactory(); err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.initRepositories()

	if err := c.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := c.initCache(); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	utils.LogIfDev("DI container initialized successfully")
	return nil
}

// initDatabaseFactory 初始化数据库工厂
func (c *Container) initDatabaseFactory() error {
	factory, err := database.NewFactory(c.config)
	if err != nil {
		return err
	}
	c.databaseFactory = factory
	utils.LogIfDev("Database factory initialized")
	return nil
}

// initRepositories 初始化所有仓库
func (c *Container) initRepositories() {
	db := c.databaseFactory.GetProvider().DB()
	c.repositories = &Repositories{
		Accounts: accounts.NewRepository(db),
		Devices:  accounts.NewDeviceRepository(db),
		Tools:    toolsrepo.NewRepository(db),
	}
	utils.LogIfDev("Repositories initialized")
}

// initStorage 初始化存储后端
func (c *Container) initStorage() error {
	factory, err := storage.NewFactory(c.config)
	if err != nil {
		return err
	}
	c.storageFactory = factory
	utils.LogIfDevf("Storage initialized, default provider: %s", factory.GetDefaultName())
	return nil
}

// initCache 初始化缓存提供者
func (c *Container) initCache() error {
	provider, err := cache.NewProvider(c.config)
	if err != nil {
		return err
	}
	c.cacheProvider = provider
	utils.LogIfDevf("Cache initialized, provider: %s", provider.Name())
	return nil
}

// initServices 初始化业务服务
func (c *Container) initServices() error {
	storageProvider := c.storageFactory.GetDefault()
	if storageProvider == nil {
		return fmt.Errorf("default storage provider %q is not configured", c.config.StorageType)
	}

	c.photoService = photos.NewService(storageProvider, c.config.BaseURL(), c.config.PhotoMaxSizeBytes)
	c.toolService = toolsvc.NewService(c.repositories.Tools, c.photoService)

	if c.config.OpenAIAPIKey != "" {
		c.identifier = identify.NewClient(c.config.OpenAIAPIKey, c.config.OpenAIModel, c.config.IdentifyTimeout)
	}

	utils.LogIfDev("Services initialized")
	return nil
}

// GetDatabaseFactory 获取数据库工厂
func (c *Container) GetDatabaseFactory() *database.Factory {
	return c.databaseFactory
}

// GetStorageFactory 获取存储工厂
func (c *Container) GetStorageFactory() *storage.Factory {
	return c.storageFactory
}

// GetCacheProvider 获取缓存提供者
func (c *Container) GetCacheProvider() cache.Provider {
	return c.cacheProvider
}

// GetRepositories 获取仓库集合
func (c *Container) GetRepositories() *Repositories {
	return c.repositories
}

// GetPhotoService 获取照片服务
func (c *Container) GetPhotoService() *photos.Service {
	return c.photoService
}

// GetToolService 获取工具服务
func (c *Container) GetToolService() *toolsvc.Service {
	return c.toolService
}

// GetIdentifyClient 获取 AI 识别客户端，未配置时为 nil
func (c *Container) GetIdentifyClient() identify.Identifier {
	return c.identifier
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close 关闭所有服务
func (c *Container) Close() error {
	utils.LogIfDev("Closing DI container...")

	if c.cacheProvider != nil {
		if err := c.cacheProvider.Close(); err != nil {
			utils.LogIfDevf("Error closing cache provider: %v", err)
		}
	}

	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			utils.LogIfDevf("Error closing database factory: %v", err)
		}
	}

	utils.LogIfDev("DI container closed")
	return nil
}
