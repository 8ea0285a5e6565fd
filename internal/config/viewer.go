package config

import (
	"fmt"
	"os"
	"strings"
)

const EnvViewerBasePath = "HUB_VIEWER_BASE_PATH"

// ViewerConfig holds settings for the server-rendered material viewer.
type ViewerConfig struct {
	BasePath string `toml:"base_path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ViewerConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/app"
	}
	if v := os.Getenv(EnvViewerBasePath); v != "" {
		c.BasePath = v
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /: %q", c.BasePath)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ViewerConfig) Merge(overlay *ViewerConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
}
