package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/hub/pkg/handlers"
	"github.com/JaimeStill/hub/pkg/openapi"
	"github.com/JaimeStill/hub/pkg/routes"
	"github.com/JaimeStill/hub/pkg/storage"
)

type storageHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newStorageHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *storageHandler {
	return &storageHandler{
		store:       store,
		logger:      logger.With("handler", "storage"),
		maxListSize: maxListSize,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Tags:   []string{"Storage"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: storageListOp},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download, OpenAPI: storageDownloadOp},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find, OpenAPI: storageFindOp},
		},
	}
}

func (h *storageHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	maxResults, err := storage.ParseMaxResults(q.Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(r.Context(), q.Get("prefix"), q.Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *storageHandler) find(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Find(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

// download streams a blob inline so the viewer can frame it.
// ?attachment=true asks the browser to save it instead.
func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	disposition := "inline"
	if attach, _ := strconv.ParseBool(r.URL.Query().Get("attachment")); attach {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, path.Base(key)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("download interrupted", "key", key, "error", err)
	}
}

var keyParam = &openapi.Parameter{
	Name:     "key",
	In:       "path",
	Required: true,
	Schema:   &openapi.Schema{Type: "string", Example: "materials/{id}/en/guide.pdf"},
}

var storageListOp = &openapi.Operation{
	Summary: "List blobs",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("prefix", "string", "Key prefix", false),
		openapi.QueryParam("marker", "string", "Continuation marker", false),
		openapi.QueryParam("max_results", "integer", "Page size", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Blob page", "BlobList"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var storageFindOp = &openapi.Operation{
	Summary:    "Find blob metadata",
	Parameters: []*openapi.Parameter{keyParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Blob metadata", "BlobMeta"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var storageDownloadOp = &openapi.Operation{
	Summary: "Download blob",
	Parameters: []*openapi.Parameter{
		keyParam,
		openapi.QueryParam("attachment", "boolean", "Force a download disposition", false),
	},
	Responses: map[int]*openapi.Response{
		200: {Description: "Blob content"},
		404: openapi.ResponseRef("NotFound"),
	},
}

func storageSchemas() map[string]*openapi.Schema {
	meta := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"key":            {Type: "string"},
			"content_type":   {Type: "string"},
			"content_length": {Type: "integer"},
			"last_modified":  {Type: "string", Format: "date-time"},
			"etag":           {Type: "string"},
		},
	}

	return map[string]*openapi.Schema{
		"BlobMeta": meta,
		"BlobList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"blobs":       {Type: "array", Items: openapi.SchemaRef("BlobMeta")},
				"next_marker": {Type: "string"},
			},
		},
	}
}
