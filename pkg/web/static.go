package web

import (
	"io/fs"
	"net/http"
)

// StaticServer serves files from subdir of fsys with urlPrefix stripped.
// Responses carry a short public cache lifetime.
func StaticServer(fsys fs.FS, subdir, urlPrefix string) (http.HandlerFunc, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, err
	}

	server := http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		server.ServeHTTP(w, r)
	}, nil
}
