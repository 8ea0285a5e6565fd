package trails

import "github.com/JaimeStill/hub/pkg/openapi"

var listOp = &openapi.Operation{
	Summary: "List trails",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search title and description", false),
		openapi.QueryParam("status", "string", "Status filter", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Trail page", "TrailPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Find trail",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Trail ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Trail", "Trail"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var setMaterialsOp = &openapi.Operation{
	Summary:     "Set trail materials",
	Description: "Replaces the ordered material list of a trail.",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Trail ID")},
	RequestBody: openapi.RequestBodyJSON("TrailMaterials", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Trail", "Trail"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

// Schemas returns the component schemas referenced by trail operations.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Trail": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"roles":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"status":      {Type: "string", Enum: []any{"draft", "review", "published"}},
				"materials": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"material_id": {Type: "string", Format: "uuid"},
							"title":       {Type: "string"},
							"type":        {Type: "string"},
							"position":    {Type: "integer"},
						},
					},
				},
			},
		},
		"TrailPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Trail")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"TrailMaterials": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"material_ids": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Required: []string{"material_ids"},
		},
	}
}
