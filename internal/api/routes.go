package api

import (
	"github.com/JaimeStill/hub/internal/config"
	"github.com/JaimeStill/hub/pkg/routes"
)

func routeGroups(domain *Domain, cfg *config.Config, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Materials.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Trails.Handler().Routes(),
		newMediaHandler(runtime.Metrics, runtime.Logger).routes(),
		newStorageHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize).routes(),
	}
}
