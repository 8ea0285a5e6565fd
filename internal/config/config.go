package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/hub/pkg/database"
	"github.com/JaimeStill/hub/pkg/logging"
	"github.com/JaimeStill/hub/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvHubEnv             = "HUB_ENV"
	EnvHubShutdownTimeout = "HUB_SHUTDOWN_TIMEOUT"
	EnvHubVersion         = "HUB_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "HUB_DB_HOST",
	Port:            "HUB_DB_PORT",
	Name:            "HUB_DB_NAME",
	User:            "HUB_DB_USER",
	Password:        "HUB_DB_PASSWORD",
	SSLMode:         "HUB_DB_SSL_MODE",
	MaxOpenConns:    "HUB_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HUB_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HUB_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HUB_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "HUB_STORAGE_CONTAINER_NAME",
	ConnectionString: "HUB_STORAGE_CONNECTION_STRING",
	AccountURL:       "HUB_STORAGE_ACCOUNT_URL",
	MaxListSize:      "HUB_STORAGE_MAX_LIST_SIZE",
}

var logEnv = &logging.Env{
	Level:  "HUB_LOG_LEVEL",
	Format: "HUB_LOG_FORMAT",
}

// Config is the root configuration for the hub service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Viewer          ViewerConfig    `toml:"viewer"`
	Log             logging.Config  `toml:"log"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the HUB_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvHubEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Viewer.Merge(&overlay.Viewer)
	c.Log.Merge(&overlay.Log)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Viewer.Finalize(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	if err := c.Log.Finalize(logEnv); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Viewer.BasePath == c.API.BasePath {
		return fmt.Errorf("viewer and api base paths must differ: %s", c.API.BasePath)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvHubShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvHubVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvHubEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
