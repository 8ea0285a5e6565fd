package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/hub/pkg/formatting"
	"github.com/JaimeStill/hub/pkg/middleware"
	"github.com/JaimeStill/hub/pkg/openapi"
	"github.com/JaimeStill/hub/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "HUB_CORS_ENABLED",
	Origins:          "HUB_CORS_ORIGINS",
	AllowedMethods:   "HUB_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "HUB_CORS_ALLOWED_HEADERS",
	AllowCredentials: "HUB_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "HUB_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "HUB_OPENAPI_TITLE",
	Description: "HUB_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "HUB_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "HUB_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes parses MaxUploadSize, falling back to 50MB.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

// AssetBase returns the public path uploaded material files are served from.
func (c *APIConfig) AssetBase() string {
	return strings.TrimSuffix(c.BasePath, "/") + "/storage/download"
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("HUB_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("HUB_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /: %q", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
