package api

import (
	"fmt"

	"github.com/JaimeStill/hub/internal/config"
	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/trails"
	"github.com/JaimeStill/hub/pkg/openapi"
	"github.com/JaimeStill/hub/pkg/routes"
)

// buildSpec describes every documented route and serializes the result once.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(materials.Schemas())
	spec.Components.AddSchemas(trails.Schemas())
	spec.Components.AddSchemas(mediaSchemas())
	spec.Components.AddSchemas(storageSchemas())

	routes.Describe(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
