package app

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/trails"
	"github.com/JaimeStill/hub/pkg/media"
	"github.com/JaimeStill/hub/pkg/pagination"
	"github.com/JaimeStill/hub/pkg/routes"
	"github.com/JaimeStill/hub/pkg/web"
)

const pageSize = 24

var listConfig = pagination.Config{DefaultPageSize: pageSize, MaxPageSize: pageSize}

type handler struct {
	systems Systems
	ts      *web.TemplateSet
	logger  *slog.Logger
}

func newHandler(systems Systems, ts *web.TemplateSet, logger *slog.Logger) *handler {
	return &handler{
		systems: systems,
		ts:      ts,
		logger:  logger.With("handler", "viewer"),
	}
}

func (h *handler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.home},
			{Method: "GET", Pattern: "/materials/{id}", Handler: h.material},
			{Method: "GET", Pattern: "/trails", Handler: h.trails},
			{Method: "GET", Pattern: "/trails/{id}", Handler: h.trail},
		},
	}
}

type pager struct {
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

func newPager(path string, values url.Values, page, totalPages int) pager {
	link := func(p int) string {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(p))
		return path + "?" + q.Encode()
	}

	p := pager{Page: page, TotalPages: totalPages}
	if page > 1 {
		p.PrevURL = link(page - 1)
	}
	if page < totalPages {
		p.NextURL = link(page + 1)
	}
	return p
}

type homePage struct {
	Materials []materials.Material
	Total     int
	Pager     pager
	Types     []media.MaterialType
	Type      string
	Search    string
	Providers []media.ProviderInfo
}

func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.PageRequestFromQuery(q, listConfig)
	filters := materials.FiltersFromQuery(q)

	result, err := h.systems.Materials.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, err, materials.MapHTTPStatus(err))
		return
	}

	data := homePage{
		Materials: result.Data,
		Total:     result.Total,
		Pager:     newPager(h.ts.BasePath()+"/", q, result.Page, result.TotalPages),
		Types:     media.MaterialTypes(),
		Type:      q.Get("type"),
		Search:    q.Get("search"),
		Providers: media.Providers(),
	}

	h.render(w, http.StatusOK, homeView, "", data)
}

type languageLink struct {
	Language string
	URL      string
	Active   bool
}

type materialPage struct {
	View        *materials.View
	Languages   []languageLink
	ToggleURL   string
	ToggleLabel string
}

// material renders one language of a material. The mode query value
// carries the native/preview toggle; every fresh open starts in preview.
func (h *handler) material(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.notFound(w)
		return
	}

	q := r.URL.Query()
	mode := media.ParseMode(q.Get("mode"))

	view, err := h.systems.Materials.View(r.Context(), id, q.Get("lang"), mode)
	if err != nil {
		h.fail(w, err, materials.MapHTTPStatus(err))
		return
	}

	path := h.ts.BasePath() + "/materials/" + id.String()
	data := materialPage{View: view}

	for _, lang := range view.Languages {
		data.Languages = append(data.Languages, languageLink{
			Language: lang,
			URL:      path + "?" + url.Values{"lang": {lang}}.Encode(),
			Active:   lang == view.Language,
		})
	}

	if view.Plan.CanToggle {
		next := view.Plan.Mode.Toggle()
		data.ToggleURL = path + "?" + url.Values{
			"lang": {view.Language},
			"mode": {string(next)},
		}.Encode()
		data.ToggleLabel = "Open in viewer"
		if next == media.ModeNative {
			data.ToggleLabel = "Not loading? Open native player"
		}
	}

	h.render(w, http.StatusOK, materialView, view.Title, data)
}

type trailsPage struct {
	Trails []trails.Trail
	Total  int
	Pager  pager
	Search string
}

func (h *handler) trails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.PageRequestFromQuery(q, listConfig)

	result, err := h.systems.Trails.List(r.Context(), page, trails.FiltersFromQuery(q))
	if err != nil {
		h.fail(w, err, trails.MapHTTPStatus(err))
		return
	}

	data := trailsPage{
		Trails: result.Data,
		Total:  result.Total,
		Pager:  newPager(h.ts.BasePath()+"/trails", q, result.Page, result.TotalPages),
		Search: q.Get("search"),
	}

	h.render(w, http.StatusOK, trailsView, "", data)
}

func (h *handler) trail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.notFound(w)
		return
	}

	t, err := h.systems.Trails.Find(r.Context(), id)
	if err != nil {
		h.fail(w, err, trails.MapHTTPStatus(err))
		return
	}

	h.render(w, http.StatusOK, trailView, t.Title, t)
}

func (h *handler) render(w http.ResponseWriter, status int, view web.ViewDef, title string, data any) {
	if err := h.ts.Render(w, status, view, title, data); err != nil {
		h.logger.Error("render failed", "view", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *handler) notFound(w http.ResponseWriter) {
	h.render(w, http.StatusNotFound, notFoundView, "", nil)
}

func (h *handler) fail(w http.ResponseWriter, err error, status int) {
	if status == http.StatusNotFound {
		h.notFound(w)
		return
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("page failed", "status", status, "error", err)
	} else {
		h.logger.Warn("page rejected", "status", status, "error", err)
	}
	h.render(w, status, errorView, "", http.StatusText(status))
}
