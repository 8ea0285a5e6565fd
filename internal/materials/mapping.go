package materials

import (
	"net/url"

	"github.com/JaimeStill/hub/pkg/media"
	"github.com/JaimeStill/hub/pkg/query"
	"github.com/JaimeStill/hub/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "materials", "m").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("type", "Type").
	Project("roles", "Roles").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var assetProjection = query.
	NewProjectionMap("public", "material_assets", "a").
	Project("id", "ID").
	Project("material_id", "MaterialID").
	Project("language", "Language").
	Project("url", "URL").
	Project("subtitle_url", "SubtitleURL").
	Project("status", "Status").
	Project("storage_key", "StorageKey").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const assetColumns = "id, material_id, language, url, subtitle_url, status, storage_key, content_type, size_bytes, page_count, created_at, updated_at"

// Filters contains optional filtering criteria for material queries.
// Nil fields are ignored. Type uses exact matching and Title uses
// case-insensitive contains matching. Role visibility is applied from
// the caller's request role, not from filters.
type Filters struct {
	Type  *media.MaterialType `json:"type,omitempty"`
	Title *string             `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var t any
	if f.Type != nil {
		t = string(*f.Type)
	}
	return b.
		WhereEquals("Type", t).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown material types are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("type"); v != "" {
		if t, err := media.ParseMaterialType(v); err == nil {
			f.Type = &t
		}
	}

	if v := values.Get("title"); v != "" {
		f.Title = &v
	}

	return f
}

func scanMaterial(s repository.Scanner) (Material, error) {
	var m Material
	err := s.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Type,
		&m.Roles,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	m.Assets = []Asset{}
	return m, err
}

func scanAsset(s repository.Scanner) (Asset, error) {
	var a Asset
	err := s.Scan(
		&a.ID,
		&a.MaterialID,
		&a.Language,
		&a.URL,
		&a.SubtitleURL,
		&a.Status,
		&a.StorageKey,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
