package api

import (
	"github.com/JaimeStill/hub/internal/config"
	"github.com/JaimeStill/hub/internal/infrastructure"
	"github.com/JaimeStill/hub/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	AssetBase   string
	MaxListSize int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination:  cfg.API.Pagination,
		AssetBase:   cfg.API.AssetBase(),
		MaxListSize: cfg.Storage.MaxListSize,
	}
}
