package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// JWT 配置
	JwtSecret           string `mapstructure:"jwt_secret"`
	JwtExpiresIn        string `mapstructure:"jwt_expires_in"`
	JwtRefreshExpiresIn string `mapstructure:"jwt_refresh_expires_in"`

	// 存储配置
	StorageType           string `mapstructure:"storage_type"`
	StorageLocalPath      string `mapstructure:"storage_local_path"`
	MinioEndpoint         string `mapstructure:"minio_endpoint"`
	MinioAccessKeyID      string `mapstructure:"minio_access_key_id"`
	MinioSecretAccessKey  string `mapstructure:"minio_secret_access_key"`
	MinioBucketName       string `mapstructure:"minio_bucket_name"`
	MinioUseSSL           bool   `mapstructure:"minio_use_ssl"`
	MinioMaxIdleConns     int    `mapstructure:"minio_max_idle_conns"`
	MinioIdleConnTimeout  string `mapstructure:"minio_idle_conn_timeout"`

	// 照片上传配置
	PhotoMaxSizeBytes int64 `mapstructure:"photo_max_size_bytes"`

	// 缓存配置
	CacheType          string `mapstructure:"cache_type"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`
	CacheToolListTTL   int    `mapstructure:"cache_tool_list_ttl"`

	// AI 识别配置
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	OpenAIModel     string        `mapstructure:"openai_model"`
	IdentifyTimeout time.Duration `mapstructure:"identify_timeout"`

	// 限流配置
	RateLimitApiRPS       float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst     int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS      float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst    int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitIdentifyRPS  float64       `mapstructure:"rate_limit_identify_rps"`
	RateLimitIdentifyBurst int          `mapstructure:"rate_limit_identify_burst"`
	RateLimitExpireTime   time.Duration `mapstructure:"rate_limit_expire_time"`

	// 搜索配置
	SearchDebounceInterval time.Duration `mapstructure:"search_debounce_interval"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "toolshed")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// JWT 配置默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "1h")
	viper.SetDefault("jwt_refresh_expires_in", "720h")

	// 存储配置默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./data/photos")
	viper.SetDefault("minio_endpoint", "")
	viper.SetDefault("minio_access_key_id", "")
	viper.SetDefault("minio_secret_access_key", "")
	viper.SetDefault("minio_bucket_name", "tool-photos")
	viper.SetDefault("minio_use_ssl", false)
	viper.SetDefault("minio_max_idle_conns", 256)
	viper.SetDefault("minio_idle_conn_timeout", "1m")

	// 照片上传配置默认值（5 MiB）
	viper.SetDefault("photo_max_size_bytes", 5*1024*1024)

	// 缓存配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)
	viper.SetDefault("cache_tool_list_ttl", 60)

	// AI 识别配置默认值
	viper.SetDefault("openai_api_key", "")
	viper.SetDefault("openai_model", "gpt-4o")
	viper.SetDefault("identify_timeout", "60s")

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_identify_rps", 1.0)
	viper.SetDefault("rate_limit_identify_burst", 3)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 搜索配置默认值
	viper.SetDefault("search_debounce_interval", "350ms")
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成照片链接
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	host := c.ServerHost
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}
