// Package materials implements the material domain for hub.
// A material is a titled piece of content published to a set of roles,
// with one asset per language pointing at the actual file or link.
package materials

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/htmlsanitize"
	"github.com/JaimeStill/hub/pkg/media"
)

// Status is the editorial state of an asset or trail.
type Status string

// Editorial states. Only published content is visible outside super_admin.
const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
)

var statuses = []Status{
	StatusDraft,
	StatusReview,
	StatusPublished,
}

// Statuses returns the list of valid statuses.
func Statuses() []Status {
	return statuses
}

// ParseStatus validates a string as a known status.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Material is a piece of content with per-language assets.
type Material struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        media.MaterialType `json:"type"`
	Roles       roles.List         `json:"roles"`
	Assets      []Asset            `json:"assets"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Asset is the content of a material in one language. Only the raw URL
// is stored; embed data is derived from it whenever it is rendered.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	MaterialID  uuid.UUID `json:"material_id"`
	Language    string    `json:"language"`
	URL         string    `json:"url"`
	SubtitleURL string    `json:"subtitle_url,omitempty"`
	Status      Status    `json:"status"`
	StorageKey  string    `json:"storage_key,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	PageCount   *int      `json:"page_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Asset returns the asset for lang, or nil when the material has none.
func (m *Material) Asset(lang string) *Asset {
	for i := range m.Assets {
		if m.Assets[i].Language == lang {
			return &m.Assets[i]
		}
	}
	return nil
}

// Languages returns the languages the material has assets for.
func (m *Material) Languages() []string {
	langs := make([]string, 0, len(m.Assets))
	for _, a := range m.Assets {
		langs = append(langs, a.Language)
	}
	return langs
}

// AssetCommand carries the link-based content of one language.
type AssetCommand struct {
	Language    string `json:"language"`
	URL         string `json:"url"`
	SubtitleURL string `json:"subtitle_url,omitempty"`
	Status      Status `json:"status,omitempty"`
}

// Normalize canonicalises the language and fills the default status.
func (c *AssetCommand) Normalize() error {
	lang, err := ParseLanguage(c.Language)
	if err != nil {
		return err
	}
	c.Language = lang

	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		return ErrInvalidAsset
	}
	c.SubtitleURL = strings.TrimSpace(c.SubtitleURL)

	if c.Status == "" {
		c.Status = StatusDraft
	}
	return nil
}

// CreateCommand carries the data needed to register a material.
// When Type is empty it is inferred from the first asset URL.
type CreateCommand struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        media.MaterialType `json:"type,omitempty"`
	Roles       []roles.Role       `json:"roles"`
	Assets      []AssetCommand     `json:"assets"`
}

// Normalize validates the command and applies the inferred type,
// sanitised description, canonical languages, and deduplicated roles.
func (c *CreateCommand) Normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrInvalidMaterial
	}
	c.Description = htmlsanitize.Sanitize(strings.TrimSpace(c.Description))
	c.Roles = roles.Normalize(c.Roles)

	seen := make(map[string]bool, len(c.Assets))
	for i := range c.Assets {
		if err := c.Assets[i].Normalize(); err != nil {
			return err
		}
		if seen[c.Assets[i].Language] {
			return ErrDuplicate
		}
		seen[c.Assets[i].Language] = true
	}

	if c.Type == "" {
		c.Type = SuggestType(c.Assets)
	}
	if c.Type == "" {
		return media.ErrInvalidType
	}
	return nil
}

// UpdateCommand replaces the editable fields of a material.
// Type is required here; inference only applies at creation.
type UpdateCommand struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        media.MaterialType `json:"type"`
	Roles       []roles.Role       `json:"roles"`
}

// Normalize validates the command and sanitises its description.
func (c *UpdateCommand) Normalize() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrInvalidMaterial
	}
	if c.Type == "" {
		return media.ErrInvalidType
	}
	c.Description = htmlsanitize.Sanitize(strings.TrimSpace(c.Description))
	c.Roles = roles.Normalize(c.Roles)
	return nil
}

// UploadCommand carries a file uploaded as the asset of one language.
// PageCount is filled by the handler for PDF uploads.
type UploadCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	SubtitleURL string
	Status      Status
	PageCount   *int
}

// View is the rendering of one material in one language.
type View struct {
	MaterialID uuid.UUID          `json:"material_id"`
	Title      string             `json:"title"`
	Type       media.MaterialType `json:"type"`
	Language   string             `json:"language"`
	Languages  []string           `json:"languages"`
	Plan       media.RenderPlan   `json:"plan"`
}

// SuggestType returns the material type detected for the first asset URL,
// or the empty type when no asset carries a URL. The suggestion is
// advisory; an explicit type always wins.
func SuggestType(assets []AssetCommand) media.MaterialType {
	for _, a := range assets {
		if c := media.Classify(a.URL); c != nil {
			return c.MaterialType
		}
	}
	return ""
}

// ParseLanguage canonicalises a BCP 47 language tag (pt-br becomes pt-BR).
func ParseLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", ErrInvalidLanguage
	}
	return tag.String(), nil
}
