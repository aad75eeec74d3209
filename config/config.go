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
	JWTSecret            string        `mapstructure:"jwt_secret"`
	JWTExpiresIn         time.Duration `mapstructure:"jwt_expires_in"`
	JWTConfirmExpiresIn  time.Duration `mapstructure:"jwt_confirm_expires_in"`
	JWTNotificationToken time.Duration `mapstructure:"jwt_notification_token_expires_in"`

	// 存储配置
	StorageType          string `mapstructure:"storage_type"`
	StorageLocalPath     string `mapstructure:"storage_local_path"`
	StorageSignSecret    string `mapstructure:"storage_sign_secret"`
	MinioEndpoint        string `mapstructure:"minio_endpoint"`
	MinioAccessKeyID     string `mapstructure:"minio_access_key_id"`
	MinioSecretAccessKey string `mapstructure:"minio_secret_access_key"`
	MinioBucketName      string `mapstructure:"minio_bucket_name"`
	MinioUseSSL          bool   `mapstructure:"minio_use_ssl"`
	MinioSignedURLExpiry string `mapstructure:"minio_signed_url_expiry"`
	WebdavEndpoint       string `mapstructure:"webdav_endpoint"`
	WebdavUsername       string `mapstructure:"webdav_username"`
	WebdavPassword       string `mapstructure:"webdav_password"`
	WebdavRoot           string `mapstructure:"webdav_root"`

	// 缓存配置
	CacheType          string `mapstructure:"cache_type"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`
	CacheUserTTL       int    `mapstructure:"cache_user_ttl"`
	CacheSignedURLTTL  int    `mapstructure:"cache_signed_url_ttl"`

	// 邮件配置
	MailHost     string `mapstructure:"mail_host"`
	MailPort     int    `mapstructure:"mail_port"`
	MailUsername string `mapstructure:"mail_username"`
	MailPassword string `mapstructure:"mail_password"`
	MailFrom     string `mapstructure:"mail_from"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 上传配置
	UploadMaxSizeMB int `mapstructure:"upload_max_size_mb"`

	// Worker 配置
	WorkerCount int `mapstructure:"worker_count"`
}

// Addr 服务器监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BaseURL 对外基础 URL
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	return fmt.Sprintf("http://%s", c.Addr())
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

	if globalConfig.WorkerCount <= 0 {
		globalConfig.WorkerCount = getCpus()
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
	viper.SetDefault("db_name", "galeries")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// JWT 配置默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "720h")
	viper.SetDefault("jwt_confirm_expires_in", "30m")
	viper.SetDefault("jwt_notification_token_expires_in", "30m")

	// 存储配置默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./data/upload")
	viper.SetDefault("storage_sign_secret", "")
	viper.SetDefault("minio_endpoint", "")
	viper.SetDefault("minio_bucket_name", "galeries")
	viper.SetDefault("minio_use_ssl", false)
	viper.SetDefault("minio_signed_url_expiry", "24h")
	viper.SetDefault("webdav_endpoint", "")
	viper.SetDefault("webdav_root", "galeries")

	// 缓存配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)
	viper.SetDefault("cache_user_ttl", 300)
	viper.SetDefault("cache_signed_url_ttl", 3600)

	// 邮件配置默认值
	viper.SetDefault("mail_host", "")
	viper.SetDefault("mail_port", 587)
	viper.SetDefault("mail_from", "no-reply@galeries.local")

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 上传配置默认值
	viper.SetDefault("upload_max_size_mb", 50)

	// Worker 配置默认值
	viper.SetDefault("worker_count", 0)
}
