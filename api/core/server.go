package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	handlerAccounts "github.com/harane/toolshed/api/handler/accounts"
	handlerIdentify "github.com/harane/toolshed/api/handler/identify"
	handlerPhotos "github.com/harane/toolshed/api/handler/photos"
	handlerTools "github.com/harane/toolshed/api/handler/tools"
	"github.com/harane/toolshed/api/middleware"
	"github.com/harane/toolshed/cache"
	"github.com/harane/toolshed/config"
	"github.com/harane/toolshed/internal/app"
	"github.com/harane/toolshed/internal/auth"
	"github.com/harane/toolshed/internal/identify"
	"github.com/harane/toolshed/internal/photos"
	toolsvc "github.com/harane/toolshed/internal/tools"
	"github.com/harane/toolshed/storage"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	Config         *config.Config
	StorageFactory *storage.Factory
	CacheProvider  cache.Provider
	Repositories   *app.Repositories
	PhotoService   *photos.Service
	ToolService    *toolsvc.Service
	Identifier     identify.Identifier
}

// 启动gin
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	router := gin.New()

	// 全局中间件
	// 仅在开发版本时启用 gin 日志
	if config.CommitHash == "n/a" {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 限制上传文件大小
	router.MaxMultipartMemory = cfg.PhotoMaxSizeBytes

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	identifyRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitIdentifyRPS, cfg.RateLimitIdentifyBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
		identifyRateLimiter.StopCleanup()
	}

	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.Repositories),
				"cache":    checkCacheHealth(deps.CacheProvider),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	// 创建处理器（依赖注入）
	loginService := auth.NewLoginService(deps.Repositories.Accounts, deps.Repositories.Devices)
	accountService := auth.NewAccountService(deps.Repositories.Accounts)
	accountHandler := handlerAccounts.NewHandler(loginService, accountService)
	toolHandler := handlerTools.NewHandler(deps.ToolService, deps.CacheProvider, cache.ToolListTTL(cfg), cfg.SearchDebounceInterval, cfg.PhotoMaxSizeBytes)
	identifyHandler := handlerIdentify.NewHandler(deps.Identifier, cfg.PhotoMaxSizeBytes)
	photoHandler := handlerPhotos.NewHandler(deps.PhotoService)

	// 公共接口
	photosGroup := router.Group("/photos")
	photosGroup.Use(apiRateLimiter.Middleware())
	{
		photosGroup.GET("/*key", photoHandler.ServePhoto) // GET /photos/{owner}/{file}
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.POST("/register", accountHandler.RegisterHandlerFunc) //POST /api/auth/register
			authGroup.POST("/login", accountHandler.LoginHandlerFunc)       //POST /api/auth/login
			authGroup.POST("/refresh", accountHandler.RefreshTokenHandlerFunc) //POST /api/auth/refresh
			authGroup.POST("/logout", accountHandler.LogoutHandlerFunc)     //POST /api/auth/logout
		}

		v1 := apiGroup.Group("/v1")
		v1.Use(apiRateLimiter.Middleware())
		{
			// 公开浏览
			v1.GET("/tools", toolHandler.ListTools)               // GET /api/v1/tools
			v1.GET("/tools/search", toolHandler.LiveSearch)       // GET /api/v1/tools/search (websocket)
			v1.GET("/tools/:identifier", toolHandler.GetTool)     // GET /api/v1/tools/{identifier}

			// 登录用户
			authed := v1.Group("")
			authed.Use(middleware.AuthRequired())
			{
				authed.GET("/tools/mine", toolHandler.ListMyTools)             // GET /api/v1/tools/mine
				authed.POST("/tools", toolHandler.CreateTool)                  // POST /api/v1/tools
				authed.PUT("/tools/:identifier", toolHandler.UpdateTool)       // PUT /api/v1/tools/{identifier}
				authed.DELETE("/tools/:identifier", toolHandler.DeleteTool)    // DELETE /api/v1/tools/{identifier}

				identifyGroup := authed.Group("/tools/identify")
				identifyGroup.Use(identifyRateLimiter.Middleware())
				{
					identifyGroup.POST("", identifyHandler.IdentifyTool) // POST /api/v1/tools/identify
				}

				authed.GET("/profile", accountHandler.GetProfileHandlerFunc)    // GET /api/v1/profile
				authed.PUT("/profile", accountHandler.UpdateProfileHandlerFunc) // PUT /api/v1/profile
			}
		}
	}

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := deps.Config
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
