package web_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/hub/pkg/routes"
	"github.com/JaimeStill/hub/pkg/web"
)

func TestRouterRegisteredRoute(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /hello", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/hello", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("registered route: got %d, want 200", rec.Code)
	}
}

func TestRouterFallback(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.SetFallback(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("fallback: got %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestRouterNoFallback(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("no fallback: got %d, want 404", rec.Code)
	}
}

func TestRouterRegister(t *testing.T) {
	r := web.NewRouter()
	r.Register(routes.Group{
		Prefix: "/materials",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			}},
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/materials/abc", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("Register: got %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestStaticServer(t *testing.T) {
	fsys := fstest.MapFS{
		"static/app.css": {Data: []byte("body{}")},
	}

	handler, err := web.StaticServer(fsys, "static", "/static")
	if err != nil {
		t.Fatalf("StaticServer() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body: got %q", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
		t.Errorf("content-type: got %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("missing cache-control header")
	}
}

var (
	homeView    = web.ViewDef{Template: "home.html", Title: "Home"}
	missingView = web.ViewDef{Template: "missing.html", Title: "Not Found"}
)

func templateFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/app.html": {Data: []byte(
			`<title>{{ .Title }}</title><a href="{{ .BasePath }}/">home</a>{{ template "content" . }}`,
		)},
		"views/home.html": {Data: []byte(
			`{{ define "content" }}<p>{{ shout .Data }}</p>{{ end }}`,
		)},
		"views/missing.html": {Data: []byte(
			`{{ define "content" }}<p>gone</p>{{ end }}`,
		)},
	}
}

func newTemplateSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	funcs := template.FuncMap{"shout": strings.ToUpper}
	ts, err := web.NewTemplateSet(
		templateFS(), "layouts/*.html", "app.html", "views", "/app",
		[]web.ViewDef{homeView, missingView}, funcs,
	)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := newTemplateSet(t)

	if ts.BasePath() != "/app" {
		t.Errorf("base path: got %s, want /app", ts.BasePath())
	}

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, http.StatusOK, homeView, "", "hello <b>"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Home</title>") {
		t.Errorf("default title missing: %s", body)
	}
	if !strings.Contains(body, `href="/app/"`) {
		t.Errorf("base path missing: %s", body)
	}
	if !strings.Contains(body, "HELLO &lt;B&gt;") {
		t.Errorf("data should be escaped through the func map: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type: got %q", ct)
	}
}

func TestRenderTitleOverride(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, http.StatusOK, homeView, "Guide", "x"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), "<title>Guide</title>") {
		t.Errorf("title override missing: %s", rec.Body.String())
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	err := ts.Render(rec, http.StatusOK, web.ViewDef{Template: "nope.html"}, "", nil)
	if err == nil {
		t.Fatal("expected error for unknown view")
	}
	if rec.Body.Len() != 0 {
		t.Error("nothing should be written for an unknown view")
	}
}

func TestErrorHandler(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	ts.ErrorHandler(missingView, http.StatusNotFound)(rec, httptest.NewRequest("GET", "/x", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gone") {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestNewTemplateSetMissingLayout(t *testing.T) {
	_, err := web.NewTemplateSet(
		fstest.MapFS{}, "layouts/*.html", "app.html", "views", "/app", nil, nil,
	)
	if err == nil {
		t.Fatal("expected error when no layouts match")
	}
}
