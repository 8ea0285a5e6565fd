package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/hub/pkg/handlers"
	"github.com/JaimeStill/hub/pkg/media"
	"github.com/JaimeStill/hub/pkg/metrics"
	"github.com/JaimeStill/hub/pkg/openapi"
	"github.com/JaimeStill/hub/pkg/routes"
)

var errMissingURL = errors.New("url is required")

type mediaRequest struct {
	URL *string `json:"url"`
}

type mediaHandler struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func newMediaHandler(m *metrics.Metrics, logger *slog.Logger) *mediaHandler {
	return &mediaHandler{
		metrics: m,
		logger:  logger.With("handler", "media"),
	}
}

func (h *mediaHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/media",
		Tags:   []string{"Media"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/classify", Handler: h.classify, OpenAPI: classifyOp},
			{Method: "POST", Pattern: "/classify", Handler: h.classify, OpenAPI: classifyBodyOp},
			{Method: "GET", Pattern: "/resolve", Handler: h.resolve, OpenAPI: resolveOp},
			{Method: "POST", Pattern: "/resolve", Handler: h.resolve, OpenAPI: resolveBodyOp},
			{Method: "GET", Pattern: "/providers", Handler: h.providers, OpenAPI: providersOp},
		},
	}
}

// classify responds with a null body for blank input, matching Classify.
func (h *mediaHandler) classify(w http.ResponseWriter, r *http.Request) {
	raw, err := readURL(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c := media.Classify(raw)
	if c != nil {
		h.metrics.RecordDetection(string(c.Provider), metrics.CallClassify)
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *mediaHandler) resolve(w http.ResponseWriter, r *http.Request) {
	raw, err := readURL(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	cfg := media.Resolve(raw)
	h.metrics.RecordDetection(string(cfg.Provider), metrics.CallResolve)

	handlers.RespondJSON(w, http.StatusOK, cfg)
}

func (h *mediaHandler) providers(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, media.Providers())
}

func readURL(r *http.Request) (string, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		if !q.Has("url") {
			return "", errMissingURL
		}
		return q.Get("url"), nil
	}

	var req mediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	if req.URL == nil {
		return "", errMissingURL
	}
	return *req.URL, nil
}

var urlParam = openapi.QueryParam("url", "string", "Pasted link or iframe snippet", true)

var urlBody = &openapi.RequestBody{
	Required: true,
	Content: map[string]*openapi.MediaType{
		"application/json": {
			Schema: &openapi.Schema{
				Type:       "object",
				Properties: map[string]*openapi.Schema{"url": {Type: "string"}},
				Required:   []string{"url"},
			},
		},
	},
}

var classifyOp = &openapi.Operation{
	Summary:     "Classify link",
	Description: "Detects the provider of a pasted link and derives its embed data. Blank input returns null.",
	Parameters:  []*openapi.Parameter{urlParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Classification", "Classification"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var classifyBodyOp = &openapi.Operation{
	Summary:     "Classify link",
	Description: "Body variant of the classify endpoint for long iframe snippets.",
	RequestBody: urlBody,
	Responses:   classifyOp.Responses,
}

var resolveOp = &openapi.Operation{
	Summary:     "Resolve embed",
	Description: "Derives the embed target and native fallback for a stored asset URL.",
	Parameters:  []*openapi.Parameter{urlParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Embed config", "EmbedConfig"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var resolveBodyOp = &openapi.Operation{
	Summary:     "Resolve embed",
	RequestBody: urlBody,
	Responses:   resolveOp.Responses,
}

var providersOp = &openapi.Operation{
	Summary: "List providers",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Known link providers",
			Content: map[string]*openapi.MediaType{
				"application/json": {
					Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("ProviderInfo")},
				},
			},
		},
	},
}

func mediaSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"provider":      {Type: "string"},
				"label":         {Type: "string"},
				"material_type": {Type: "string", Enum: []any{"image", "pdf", "video"}},
				"embed_url":     {Type: "string"},
				"thumbnail_url": {Type: "string"},
				"original_url":  {Type: "string"},
				"confidence":    {Type: "number"},
			},
		},
		"EmbedConfig": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"is_embed":   {Type: "boolean"},
				"provider":   {Type: "string"},
				"embed_url":  {Type: "string"},
				"native_url": {Type: "string"},
			},
		},
		"ProviderInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":    {Type: "string"},
				"label": {Type: "string"},
				"icon":  {Type: "string"},
				"color": {Type: "string"},
			},
		},
	}
}
