// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/hub/internal/config"
	"github.com/JaimeStill/hub/internal/infrastructure"
	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/middleware"
	"github.com/JaimeStill/hub/pkg/module"
	"github.com/JaimeStill/hub/pkg/openapi"
	"github.com/JaimeStill/hub/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)
	groups := routeGroups(domain, cfg, runtime)

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(runtime.Metrics.Middleware("api"))
	m.Use(roles.Middleware())

	return m, nil
}
