package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                   string   `yaml:"port"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	LogLevel string         `yaml:"log_level"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SQLiteConfig contains the SQLite database file path
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig selects the read cache backend
type CacheConfig struct {
	Backend    string      `yaml:"backend"`
	TTLSeconds int         `yaml:"ttl_seconds"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// StorageConfig selects the image blob backend
type StorageConfig struct {
	Backend       string             `yaml:"backend"`
	MaxFileSizeMB int                `yaml:"max_file_size_mb"`
	Local         LocalStorageConfig `yaml:"local"`
	GCS           GCSConfig          `yaml:"gcs"`
}

// LocalStorageConfig stores blobs on the local filesystem
type LocalStorageConfig struct {
	Dir          string `yaml:"dir"`
	PublicPrefix string `yaml:"public_prefix"`
}

// GCSConfig stores blobs in a Google Cloud Storage bucket
type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	PathPrefix      string `yaml:"path_prefix"`
}

// CatalogConfig contains listing rules
type CatalogConfig struct {
	MinPrice             string `yaml:"min_price"`
	MaxPrice             string `yaml:"max_price"`
	MaxImagesPerProperty int    `yaml:"max_images_per_property"`
	DefaultPageSize      int    `yaml:"default_page_size"`
	MaxPageSize          int    `yaml:"max_page_size"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	APIKey  string `yaml:"api_key"`
	Index   string `yaml:"index"`
}

// SchedulerConfig contains cron specs for background jobs
type SchedulerConfig struct {
	Enabled           bool   `yaml:"enabled"`
	OrphanCleanupCron string `yaml:"orphan_cleanup_cron"`
	ReindexCron       string `yaml:"reindex_cron"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Color       bool   `yaml:"color"`
	AddSource   bool   `yaml:"add_source"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   "8080",
			AllowedOrigins:         []string{"http://localhost:3000"},
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Type:     "mysql",
			LogLevel: "warn",
			SQLite:   SQLiteConfig{Path: "catalog.db"},
		},
		Cache: CacheConfig{
			Backend: "memory",
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "catalog"},
		},
		Storage: StorageConfig{
			Backend:       "local",
			MaxFileSizeMB: 10,
			Local: LocalStorageConfig{
				Dir:          "uploads",
				PublicPrefix: "/api/files/",
			},
		},
		Catalog: CatalogConfig{
			MinPrice:             "1000",
			MaxPrice:             "999999999",
			MaxImagesPerProperty: 5,
			DefaultPageSize:      9,
			MaxPageSize:          100,
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Host:  "http://localhost:7700",
				Index: "properties",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:           true,
			OrphanCleanupCron: "0 3 * * *",
			ReindexCron:       "30 3 * * *",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			RequestsPerHour:   1800,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			Color:       true,
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides config values with environment variables when they are set
func (c *Config) ApplyEnv() {
	c.Server.Port = GetEnv("PORT", c.Server.Port)
	c.Database.Type = GetEnv("DB_TYPE", c.Database.Type)

	switch c.Database.Type {
	case "postgres":
		c.Database.Postgres.Host = GetEnv("DB_HOST", c.Database.Postgres.Host)
		c.Database.Postgres.Port = getEnvInt("DB_PORT", c.Database.Postgres.Port)
		c.Database.Postgres.User = GetEnv("DB_USER", c.Database.Postgres.User)
		c.Database.Postgres.Password = GetEnv("DB_PASSWORD", c.Database.Postgres.Password)
		c.Database.Postgres.Database = GetEnv("DB_NAME", c.Database.Postgres.Database)
	case "sqlite":
		c.Database.SQLite.Path = GetEnv("DB_PATH", c.Database.SQLite.Path)
	default:
		c.Database.MySQL.Host = GetEnv("DB_HOST", c.Database.MySQL.Host)
		c.Database.MySQL.Port = getEnvInt("DB_PORT", c.Database.MySQL.Port)
		c.Database.MySQL.User = GetEnv("DB_USER", c.Database.MySQL.User)
		c.Database.MySQL.Password = GetEnv("DB_PASSWORD", c.Database.MySQL.Password)
		c.Database.MySQL.Database = GetEnv("DB_NAME", c.Database.MySQL.Database)
	}

	c.Cache.Backend = GetEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Redis.Addr = GetEnv("REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.Password = GetEnv("REDIS_PASSWORD", c.Cache.Redis.Password)

	c.Storage.Backend = GetEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Local.Dir = GetEnv("UPLOAD_DIR", c.Storage.Local.Dir)
	c.Storage.GCS.Bucket = GetEnv("GCS_BUCKET_NAME", c.Storage.GCS.Bucket)
	c.Storage.GCS.CredentialsFile = GetEnv("GOOGLE_APPLICATION_CREDENTIALS", c.Storage.GCS.CredentialsFile)

	c.Search.Meilisearch.Host = GetEnv("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = GetEnv("MEILISEARCH_KEY", c.Search.Meilisearch.APIKey)

	c.Logging.Level = GetEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = GetEnv("LOG_FORMAT", c.Logging.Format)
}

// GetEnv returns the environment variable or the fallback when unset
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// GetTTL returns the cache TTL as a duration, zero meaning no expiry
func (c *CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetMaxFileSize returns the upload size limit in bytes
func (c *StorageConfig) GetMaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
