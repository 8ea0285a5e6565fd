package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/hub/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "hub"
user = "hub"
password = "hub"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "materials"
connection_string = "DefaultEndpointsProtocol=http;AccountName=hubstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/hubstore;"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[api.openapi]
title = "Hub Test API"

[viewer]
base_path = "/viewer"

[log]
level = "debug"
format = "json"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[log]
format = "text"
`

// minimalConfig provides the minimum fields required for validation to pass.
const minimalConfig = `
[database]
name = "hub"
user = "hub"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func loadBase(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadBase(t)

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "materials" {
		t.Errorf("storage container: got %s, want materials", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.OpenAPI.Title != "Hub Test API" {
		t.Errorf("openapi title: got %s, want Hub Test API", cfg.API.OpenAPI.Title)
	}
	if cfg.Viewer.BasePath != "/viewer" {
		t.Errorf("viewer base_path: got %s, want /viewer", cfg.Viewer.BasePath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log: got %s/%s, want debug/json", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvHubEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format: got %s, want text (from overlay)", cfg.Log.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %s, want debug (from base)", cfg.Log.Level)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv("HUB_VERSION", "2.0.0")
	t.Setenv("HUB_SERVER_PORT", "3000")
	t.Setenv("HUB_LOG_LEVEL", "warn")
	t.Setenv("HUB_VIEWER_BASE_PATH", "/watch")
	t.Setenv("HUB_STORAGE_MAX_LIST_SIZE", "200")
	t.Setenv("HUB_OPENAPI_TITLE", "Env API")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level: got %s, want warn", cfg.Log.Level)
	}
	if cfg.Viewer.BasePath != "/watch" {
		t.Errorf("viewer base_path: got %s, want /watch", cfg.Viewer.BasePath)
	}
	if cfg.Storage.MaxListSize != 200 {
		t.Errorf("storage max_list_size: got %d, want 200", cfg.Storage.MaxListSize)
	}
	if cfg.API.OpenAPI.Title != "Env API" {
		t.Errorf("openapi title: got %s, want Env API", cfg.API.OpenAPI.Title)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("HUB_DB_NAME", "testdb")
	t.Setenv("HUB_DB_USER", "testuser")
	t.Setenv("HUB_STORAGE_ACCOUNT_URL", "https://hubstore.blob.core.windows.net")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.AccountURL != "https://hubstore.blob.core.windows.net" {
		t.Errorf("storage account url from env: got %s", cfg.Storage.AccountURL)
	}
	if cfg.Viewer.BasePath != "/app" {
		t.Errorf("viewer base_path default: got %s, want /app", cfg.Viewer.BasePath)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults: got %s/%s, want info/text", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.API.OpenAPI.Title == "" {
		t.Error("openapi title should have a default")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnv(t *testing.T) {
	cfg := loadBase(t)

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv(config.EnvHubEnv, "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestDurationsAndAddr(t *testing.T) {
	cfg := loadBase(t)

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if d := cfg.Server.ReadTimeoutDuration(); d != time.Minute {
		t.Errorf("read timeout: got %v, want 1m", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv("HUB_API_MAX_UPLOAD_SIZE", "100MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestAssetBase(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"/api", "/api/storage/download"},
		{"/api/", "/api/storage/download"},
	}

	for _, tt := range tests {
		cfg := &config.APIConfig{BasePath: tt.base}
		if got := cfg.AssetBase(); got != tt.want {
			t.Errorf("AssetBase(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  minimalConfig + "\n[server]\nport = 99999\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid read_timeout",
			config:  minimalConfig + "\n[server]\nread_timeout = \"bad\"\n",
			wantErr: "invalid read_timeout",
		},
		{
			name:    "invalid log format",
			config:  minimalConfig + "\n[log]\nformat = \"xml\"\n",
			wantErr: "invalid log format",
		},
		{
			name:    "invalid upload size",
			config:  minimalConfig + "\n[api]\nmax_upload_size = \"lots\"\n",
			wantErr: "invalid max_upload_size",
		},
		{
			name:    "colliding base paths",
			config:  minimalConfig + "\n[api]\nbase_path = \"/app\"\n",
			wantErr: "base paths must differ",
		},
		{
			name:    "missing storage",
			config:  "[database]\nname = \"hub\"\nuser = \"hub\"\n",
			wantErr: "connection_string or account_url required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
