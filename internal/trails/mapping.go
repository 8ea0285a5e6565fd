package trails

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/pkg/query"
	"github.com/JaimeStill/hub/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "trails", "t").
	Project("id", "ID").
	Project("title", "Title").
	Project("description", "Description").
	Project("roles", "Roles").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var itemProjection = query.
	NewProjectionMap("public", "trail_materials", "tm").
	Project("trail_id", "TrailID").
	Project("material_id", "MaterialID").
	Project("position", "Position").
	Join("public", "materials", "m", "JOIN", "tm.material_id = m.id").
	Project("title", "Title").
	Project("type", "Type")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for trail queries.
// Title uses case-insensitive contains matching; Status uses exact matching.
type Filters struct {
	Title  *string           `json:"title,omitempty"`
	Status *materials.Status `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var status any
	if f.Status != nil {
		status = string(*f.Status)
	}
	return b.
		WhereContains("Title", f.Title).
		WhereEquals("Status", status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("title"); v != "" {
		f.Title = &v
	}

	if v := values.Get("status"); v != "" {
		if s, err := materials.ParseStatus(v); err == nil {
			f.Status = &s
		}
	}

	return f
}

func scanTrail(s repository.Scanner) (Trail, error) {
	var t Trail
	err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Roles,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	t.Materials = []Item{}
	return t, err
}

type trailItem struct {
	trailID uuid.UUID
	item    Item
}

func scanItem(s repository.Scanner) (trailItem, error) {
	var ti trailItem
	err := s.Scan(
		&ti.trailID,
		&ti.item.MaterialID,
		&ti.item.Position,
		&ti.item.Title,
		&ti.item.Type,
	)
	return ti, err
}
