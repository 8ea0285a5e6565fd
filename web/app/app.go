// Package app serves the server-rendered material viewer.
package app

import (
	"embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/JaimeStill/hub/internal/config"
	"github.com/JaimeStill/hub/internal/infrastructure"
	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/internal/trails"
	"github.com/JaimeStill/hub/pkg/htmlsanitize"
	"github.com/JaimeStill/hub/pkg/metrics"
	"github.com/JaimeStill/hub/pkg/middleware"
	"github.com/JaimeStill/hub/pkg/module"
	"github.com/JaimeStill/hub/pkg/web"
)

//go:embed layouts views static
var content embed.FS

var (
	homeView     = web.ViewDef{Template: "home.html", Title: "Materials"}
	materialView = web.ViewDef{Template: "material.html", Title: "Material"}
	trailsView   = web.ViewDef{Template: "trails.html", Title: "Trails"}
	trailView    = web.ViewDef{Template: "trail.html", Title: "Trail"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "Not Found"}
	errorView    = web.ViewDef{Template: "error.html", Title: "Error"}
)

var views = []web.ViewDef{
	homeView,
	materialView,
	trailsView,
	trailView,
	notFoundView,
	errorView,
}

var funcs = template.FuncMap{
	"join":     strings.Join,
	"safeHTML": htmlsanitize.SanitizeToHTML,
}

// Systems are the domain systems the viewer reads from.
type Systems struct {
	Materials materials.System
	Trails    trails.System
}

// NewModule creates the viewer module with its own domain systems.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	logger := infra.Logger.With("module", "app")
	db := infra.Database.Connection()

	systems := Systems{
		Materials: materials.New(
			db,
			infra.Storage,
			infra.Metrics,
			logger,
			cfg.API.Pagination,
			cfg.API.AssetBase(),
		),
		Trails: trails.New(db, logger, cfg.API.Pagination),
	}

	return New(cfg.Viewer.BasePath, systems, infra.Metrics, logger)
}

// New builds the viewer module at basePath over the given systems.
// m may be nil to skip request metrics.
func New(basePath string, systems Systems, m *metrics.Metrics, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		content,
		"layouts/*.html",
		"app.html",
		"views",
		basePath,
		views,
		funcs,
	)
	if err != nil {
		return nil, err
	}

	static, err := web.StaticServer(content, "static", "/static")
	if err != nil {
		return nil, err
	}

	h := newHandler(systems, ts, logger)

	router := web.NewRouter()
	router.Register(h.routes())
	router.HandleFunc("GET /static/", static)
	router.SetFallback(ts.ErrorHandler(notFoundView, 404))

	mod := module.New(basePath, router)
	mod.Use(middleware.Logger(logger))
	if m != nil {
		mod.Use(m.Middleware("app"))
	}
	mod.Use(roles.Middleware())

	return mod, nil
}
