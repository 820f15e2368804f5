package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/goliatone/go-cvbuilder/pkg/render"
)

// Storage backends accepted by CVB_STORAGE.
const (
	StorageBolt     = "bolt"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds the settings shared by the cvbuilder binaries.
type Config struct {
	Env  string `envconfig:"CVB_ENV" default:"development"`
	Addr string `envconfig:"CVB_ADDR" default:":8080"`

	Storage    string `envconfig:"CVB_STORAGE" default:"bolt"`
	DataDir    string `envconfig:"CVB_DATA_DIR" default:"./data"`
	StorageKey string `envconfig:"CVB_STORAGE_KEY" default:"cv-maker-drafts"`

	Redis    RedisConfig
	Postgres PostgresConfig

	AutosaveDelay time.Duration `envconfig:"CVB_AUTOSAVE_DELAY" default:"2s"`
	ShutdownGrace time.Duration `envconfig:"CVB_SHUTDOWN_GRACE" default:"10s"`
	SessionTTL    time.Duration `envconfig:"CVB_SESSION_TTL" default:"2h"`
	PageSize      string        `envconfig:"CVB_PAGE_SIZE" default:"A4"`
	SecureCookie  bool          `envconfig:"CVB_SECURE_COOKIE" default:"false"`
}

// redis backend configuration
type RedisConfig struct {
	Addr     string `envconfig:"CVB_REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"CVB_REDIS_PASSWORD"`
	DB       int    `envconfig:"CVB_REDIS_DB" default:"0"`
}

// postgres backend configuration
type PostgresConfig struct {
	URL string `envconfig:"CVB_DATABASE_URL"`
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, production, test)", c.Env)
	}

	switch c.Storage {
	case StorageBolt, StorageFile:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("CVB_DATA_DIR is required for %s storage", c.Storage)
		}
	case StorageRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("CVB_REDIS_ADDR is required for redis storage")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("CVB_REDIS_DB must be non-negative")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.Postgres.URL) == "" {
			return fmt.Errorf("CVB_DATABASE_URL is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage: %s (must be one of: bolt, file, redis, postgres, memory)", c.Storage)
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("CVB_STORAGE_KEY must not be empty")
	}
	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("CVB_AUTOSAVE_DELAY must be positive")
	}
	if c.ShutdownGrace < 0 {
		return fmt.Errorf("CVB_SHUTDOWN_GRACE must be non-negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("CVB_SESSION_TTL must be positive")
	}

	valid := false
	for _, size := range render.PageSizes() {
		if strings.EqualFold(c.PageSize, string(size)) {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid page size: %s (must be one of: A4, F4, Letter, Legal)", c.PageSize)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// DefaultPageSize returns the configured page size.
func (c *Config) DefaultPageSize() render.PageSize {
	return render.ParsePageSize(c.PageSize)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Addr=%s, Storage=%s, DataDir=%s, StorageKey=%s, "+
		"Redis.Addr=%s, Redis.DB=%d, Postgres=%t, AutosaveDelay=%s, ShutdownGrace=%s, PageSize=%s}",
		c.Env, c.Addr, c.Storage, c.DataDir, c.StorageKey,
		c.Redis.Addr, c.Redis.DB, c.Postgres.URL != "", c.AutosaveDelay, c.ShutdownGrace, c.PageSize)
}
