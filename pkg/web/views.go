// Package web provides infrastructure for serving server-rendered pages with
// Go templates and embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef names a page template and its default title.
type ViewDef struct {
	Template string
	Title    string
}

// ViewData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed templates and a base path for URL generation.
// Templates are parsed once at startup, avoiding per-request overhead.
type TemplateSet struct {
	views    map[string]*template.Template
	layout   string
	basePath string
}

// NewTemplateSet parses the layout templates matching layoutGlob and clones
// them once per view found under viewSubdir. layout names the template each
// page executes. funcs may be nil.
func NewTemplateSet(
	fsys fs.FS,
	layoutGlob, layout, viewSubdir, basePath string,
	views []ViewDef,
	funcs template.FuncMap,
) (*TemplateSet, error) {
	layouts, err := template.New(layout).Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		viewTemplates[v.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		layout:   layout,
		basePath: basePath,
	}, nil
}

// BasePath returns the path prefix pages are served under.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes the view into a buffer first so a template failure never
// leaves a half-written page. title overrides the view's default when set.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, view ViewDef, title string, data any) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}

	if title == "" {
		title = view.Title
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, ts.layout, ViewData{
		Title:    title,
		BasePath: ts.basePath,
		Data:     data,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// ErrorHandler returns an HTTP handler that renders view with the given status code.
func (ts *TemplateSet) ErrorHandler(view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.Render(w, status, view, "", nil); err != nil {
			http.Error(w, http.StatusText(status), status)
		}
	}
}
