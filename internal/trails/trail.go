// Package trails implements learning trails: ordered collections of
// materials published to a set of roles.
package trails

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/htmlsanitize"
	"github.com/JaimeStill/hub/pkg/media"
)

// Trail is an ordered collection of materials.
type Trail struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Roles       roles.List       `json:"roles"`
	Status      materials.Status `json:"status"`
	Materials   []Item           `json:"materials"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Item is a material at a position within a trail. Positions start at 1.
type Item struct {
	MaterialID uuid.UUID          `json:"material_id"`
	Title      string             `json:"title"`
	Type       media.MaterialType `json:"type"`
	Position   int                `json:"position"`
}

// Command carries the editable fields of a trail for create and update.
type Command struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Roles       []roles.Role     `json:"roles"`
	Status      materials.Status `json:"status,omitempty"`
}

// Normalize validates the command, sanitises its description, and
// defaults the status to draft.
func (c *Command) Normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrInvalidTrail
	}
	c.Description = htmlsanitize.Sanitize(strings.TrimSpace(c.Description))
	c.Roles = roles.Normalize(c.Roles)
	if c.Status == "" {
		c.Status = materials.StatusDraft
	}
	return nil
}

// MaterialsCommand replaces the ordered membership of a trail.
type MaterialsCommand struct {
	MaterialIDs []uuid.UUID `json:"material_ids"`
}

// Validate rejects repeated materials.
func (c MaterialsCommand) Validate() error {
	seen := make(map[uuid.UUID]bool, len(c.MaterialIDs))
	for _, id := range c.MaterialIDs {
		if id == uuid.Nil || seen[id] {
			return ErrInvalidMaterial
		}
		seen[id] = true
	}
	return nil
}
