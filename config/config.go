package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Remote   RemoteConfig
	Cache    CacheConfig
	IDs      IDConfig
	Snapshot SnapshotConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// DatabaseConfig describes the remote PostgreSQL store. DSN wins over the
// individual fields when set.
type DatabaseConfig struct {
	DSN      string
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RemoteConfig bounds every call made to the remote store.
type RemoteConfig struct {
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type CacheConfig struct {
	Backend       string
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Namespace     string
}

type IDConfig struct {
	Prefix string
	Width  int
}

type SnapshotConfig struct {
	Dir      string
	Schedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"

	CacheFile  = "file"
	CacheRedis = "redis"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Driver:   getEnv("DB_DRIVER", DriverPostgres),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "projectsync"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Remote: RemoteConfig{
			Timeout:   getEnvAsDuration("REMOTE_TIMEOUT", 5*time.Second),
			RateLimit: getEnvAsFloat("REMOTE_RATE_LIMIT", 0),
			Burst:     getEnvAsInt("REMOTE_BURST", 10),
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", CacheFile),
			Dir:           getEnv("CACHE_DIR", ".projectsync"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			Namespace:     getEnv("CACHE_NAMESPACE", "projectsync"),
		},
		IDs: IDConfig{
			Prefix: getEnv("ID_PREFIX", "PRJ"),
			Width:  getEnvAsInt("ID_WIDTH", 4),
		},
		Snapshot: SnapshotConfig{
			Dir:      getEnv("SNAPSHOT_DIR", ""),
			Schedule: getEnv("SNAPSHOT_SCHEDULE", "@every 1h"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverPgx, c.Database.Driver)
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			return fmt.Errorf("CACHE_DIR is required for the file cache")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheFile, CacheRedis, c.Cache.Backend)
	}

	if c.IDs.Width <= 0 {
		return fmt.Errorf("ID_WIDTH must be positive")
	}

	if c.Remote.RateLimit < 0 {
		return fmt.Errorf("REMOTE_RATE_LIMIT must not be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
