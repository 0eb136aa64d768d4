package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// StorageConfig selects where generated PDFs are written and how they are addressed.
type StorageConfig struct {
	Driver       string `yaml:"driver"` // "local" or "minio"
	LocalDir     string `yaml:"local_dir"`
	PublicPrefix string `yaml:"public_prefix"`
}

// AIConfig holds settings for the external text-generation service.
type AIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"` // 0 disables the client timeout
}

// RenderConfig selects the PDF rendering strategy.
type RenderConfig struct {
	Strategy   string `yaml:"strategy"` // "draw" or "template"
	ChromePath string `yaml:"chrome_path"`
	NoSandbox  bool   `yaml:"no_sandbox"`
}

// RedisConfig holds the Redis connection used for generation locks.
// An empty URL selects the in-process lock.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// ReaperConfig controls the orphaned PDF cleanup job.
type ReaperConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Schedule       string `yaml:"schedule"`
	RetentionHours int    `yaml:"retention_hours"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from an optional YAML file and environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string         `yaml:"app_host"`
	Port          string         `yaml:"port"`
	Timezone      string         `yaml:"timezone"`
	CORSOrigins   string         `yaml:"cors_origins"`
	GenLockTTLSec int            `yaml:"generation_lock_ttl_sec"`
	Database      DatabaseConfig `yaml:"database"`
	MinIO         MinIOConfig    `yaml:"minio"`
	Storage       StorageConfig  `yaml:"storage"`
	AI            AIConfig       `yaml:"ai"`
	Render        RenderConfig   `yaml:"render"`
	Redis         RedisConfig    `yaml:"redis"`
	Reaper        ReaperConfig   `yaml:"reaper"`
	Log           LogConfig      `yaml:"log"`
}

// Load reads configuration from the YAML file named by CONFIG_FILE (if any) and then environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over file values.
func Load() (*AppConfig, error) {
	base := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, base); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	return fromEnv(base), nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func defaults() *AppConfig {
	return &AppConfig{
		AppHost:       "localhost:8080",
		Port:          "8080",
		Timezone:      "UTC",
		CORSOrigins:   "*",
		GenLockTTLSec: 300,
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
		Storage: StorageConfig{
			Driver:       "local",
			LocalDir:     "public/pdfs",
			PublicPrefix: "/pdfs",
		},
		AI: AIConfig{
			BaseURL:     "https://api.anthropic.com",
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4000,
			Temperature: 0.7,
		},
		Render: RenderConfig{
			Strategy: "template",
		},
		Reaper: ReaperConfig{
			Enabled:        true,
			Schedule:       "0 3 * * *",
			RetentionHours: 24,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func fromEnv(d *AppConfig) *AppConfig {
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", d.AppHost),
		Port:          getEnv("PORT", d.Port),
		Timezone:      getEnv("APP_TIMEZONE", d.Timezone),
		CORSOrigins:   getEnv("CORS_ALLOW_ORIGINS", d.CORSOrigins),
		GenLockTTLSec: getEnvInt("GENERATION_LOCK_TTL_SEC", d.GenLockTTLSec),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", d.Database.Host),
			Port:               getEnv("DB_PORT", d.Database.Port),
			User:               getEnv("DB_USER", d.Database.User),
			Password:           getEnv("DB_PASSWORD", d.Database.Password),
			Name:               getEnv("DB_NAME", d.Database.Name),
			SSLMode:            getEnv("DB_SSLMODE", d.Database.SSLMode),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", d.Database.MaxOpenConns),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", d.Database.MaxIdleConns),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", d.Database.ConnMaxLifetimeSec),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", d.MinIO.Endpoint),
			AccessKey: getEnv("MINIO_ACCESS_KEY", d.MinIO.AccessKey),
			SecretKey: getEnv("MINIO_SECRET_KEY", d.MinIO.SecretKey),
			Bucket:    getEnv("MINIO_BUCKET", d.MinIO.Bucket),
			UseSSL:    getEnvBool("MINIO_USE_SSL", d.MinIO.UseSSL),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", d.Storage.Driver),
			LocalDir:     getEnv("STORAGE_LOCAL_DIR", d.Storage.LocalDir),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", d.Storage.PublicPrefix),
		},
		AI: AIConfig{
			APIKey:      getEnv("ANTHROPIC_API_KEY", d.AI.APIKey),
			BaseURL:     getEnv("ANTHROPIC_BASE_URL", d.AI.BaseURL),
			Model:       getEnv("ANTHROPIC_MODEL", d.AI.Model),
			MaxTokens:   getEnvInt("ANTHROPIC_MAX_TOKENS", d.AI.MaxTokens),
			Temperature: getEnvFloat("ANTHROPIC_TEMPERATURE", d.AI.Temperature),
			TimeoutSec:  getEnvInt("ANTHROPIC_TIMEOUT_SEC", d.AI.TimeoutSec),
		},
		Render: RenderConfig{
			Strategy:   getEnv("RENDER_STRATEGY", d.Render.Strategy),
			ChromePath: getEnv("CHROME_PATH", d.Render.ChromePath),
			NoSandbox:  getEnvBool("CHROME_NO_SANDBOX", d.Render.NoSandbox),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", d.Redis.URL),
		},
		Reaper: ReaperConfig{
			Enabled:        getEnvBool("REAPER_ENABLED", d.Reaper.Enabled),
			Schedule:       getEnv("REAPER_SCHEDULE", d.Reaper.Schedule),
			RetentionHours: getEnvInt("REAPER_RETENTION_HOURS", d.Reaper.RetentionHours),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", d.Log.Level),
			Pretty: getEnvBool("LOG_PRETTY", d.Log.Pretty),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
