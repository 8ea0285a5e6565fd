package materials

import "github.com/JaimeStill/hub/pkg/openapi"

var idParam = openapi.PathParam("id", "Material ID")

var langParam = &openapi.Parameter{
	Name:        "lang",
	In:          "path",
	Required:    true,
	Description: "BCP 47 language tag",
	Schema:      &openapi.Schema{Type: "string", Example: "en"},
}

var listOp = &openapi.Operation{
	Summary:     "List materials",
	Description: "Returns the materials visible to the caller's role.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search title and description", false),
		openapi.QueryParam("sort", "string", "Sort fields", false),
		openapi.QueryParam("type", "string", "Material type filter", false),
		openapi.QueryParam("title", "string", "Title contains filter", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Material page", "MaterialPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Find material",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Material", "Material"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var viewOp = &openapi.Operation{
	Summary:     "View material",
	Description: "Computes the render plan for one language of a material.",
	Parameters: []*openapi.Parameter{
		idParam,
		openapi.QueryParam("lang", "string", "Language to view; defaults to the first available", false),
		openapi.QueryParam("mode", "string", "preview or native", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Material view", "MaterialView"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var createOp = &openapi.Operation{
	Summary:     "Create material",
	RequestBody: openapi.RequestBodyJSON("CreateMaterial", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Created material", "Material"),
		400: openapi.ResponseRef("BadRequest"),
		409: openapi.ResponseRef("Conflict"),
	},
}

var putAssetOp = &openapi.Operation{
	Summary:     "Set material asset",
	Parameters:  []*openapi.Parameter{idParam, langParam},
	RequestBody: openapi.RequestBodyJSON("AssetCommand", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Asset", "Asset"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var uploadOp = &openapi.Operation{
	Summary:    "Upload material asset",
	Parameters: []*openapi.Parameter{idParam, langParam},
	RequestBody: &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"multipart/form-data": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"file":         {Type: "string", Format: "binary"},
						"subtitle_url": {Type: "string"},
						"status":       {Type: "string", Enum: []any{"draft", "review", "published"}},
					},
					Required: []string{"file"},
				},
			},
		},
	},
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Uploaded asset", "Asset"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		413: {Description: "File too large"},
	},
}

// Schemas returns the component schemas referenced by material operations.
func Schemas() map[string]*openapi.Schema {
	asset := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"material_id":  {Type: "string", Format: "uuid"},
			"language":     {Type: "string"},
			"url":          {Type: "string"},
			"subtitle_url": {Type: "string"},
			"status":       {Type: "string", Enum: []any{"draft", "review", "published"}},
			"content_type": {Type: "string"},
			"size_bytes":   {Type: "integer"},
			"page_count":   {Type: "integer"},
		},
	}

	return map[string]*openapi.Schema{
		"Asset": asset,
		"AssetCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"url":          {Type: "string"},
				"subtitle_url": {Type: "string"},
				"status":       {Type: "string"},
			},
			Required: []string{"url"},
		},
		"Material": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"type":        {Type: "string", Enum: []any{"image", "pdf", "video"}},
				"roles":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"assets":      {Type: "array", Items: openapi.SchemaRef("Asset")},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"MaterialPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Material")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CreateMaterial": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"type":        {Type: "string", Description: "Inferred from the first classifiable asset URL when omitted"},
				"roles":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"assets":      {Type: "array", Items: openapi.SchemaRef("AssetCommand")},
			},
			Required: []string{"title"},
		},
		"MaterialView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"material_id": {Type: "string", Format: "uuid"},
				"title":       {Type: "string"},
				"type":        {Type: "string"},
				"language":    {Type: "string"},
				"languages":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"plan":        {Type: "object", Description: "Render plan for the viewer"},
			},
		},
	}
}
