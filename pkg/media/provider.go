// Package media detects which hosting provider a pasted link belongs to and
// derives everything needed to embed or play it.
//
// A single ordered provider table backs two call sites: Classify, used while
// authoring a material, and Resolve, used when a stored asset URL is rendered.
// Every function in this package is pure: no network access, no shared state,
// and nothing it produces is meant to be persisted.
package media

import (
	"encoding/json"
	"errors"
	"slices"
)

// ErrInvalidType indicates a material type outside image, pdf, and video.
var ErrInvalidType = errors.New("material type must be image, pdf, or video")

// Provider identifies the service hosting a link.
type Provider string

// Known providers. Direct is the fallback for any unrecognized host.
const (
	ProviderYouTube     Provider = "youtube"
	ProviderGoogleDrive Provider = "google_drive"
	ProviderInstagram   Provider = "instagram"
	ProviderTikTok      Provider = "tiktok"
	ProviderLinkedIn    Provider = "linkedin"
	ProviderDirect      Provider = "direct"
)

// Label returns the human-readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderYouTube:
		return "YouTube"
	case ProviderGoogleDrive:
		return "Google Drive"
	case ProviderInstagram:
		return "Instagram"
	case ProviderTikTok:
		return "TikTok"
	case ProviderLinkedIn:
		return "LinkedIn"
	default:
		return "Direct link"
	}
}

// MaterialType is the kind of content a material holds.
type MaterialType string

// Valid material types.
const (
	TypeImage MaterialType = "image"
	TypePDF   MaterialType = "pdf"
	TypeVideo MaterialType = "video"
)

var materialTypes = []MaterialType{
	TypeImage,
	TypePDF,
	TypeVideo,
}

// MaterialTypes returns the list of valid material types.
func MaterialTypes() []MaterialType {
	return materialTypes
}

// ParseMaterialType validates a string as a known material type.
func ParseMaterialType(s string) (MaterialType, error) {
	t := MaterialType(s)
	if !slices.Contains(materialTypes, t) {
		return "", ErrInvalidType
	}
	return t, nil
}

// UnmarshalJSON validates that the decoded string is a known material type.
func (t *MaterialType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseMaterialType(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ProviderInfo is presentational metadata for a "supported sources" hint.
type ProviderInfo struct {
	ID    Provider `json:"id"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// Kept in sync with the detector table by hand; it is display data only.
var providers = []ProviderInfo{
	{ID: ProviderYouTube, Label: "YouTube", Icon: "youtube", Color: "#FF0000"},
	{ID: ProviderGoogleDrive, Label: "Google Drive", Icon: "hard-drive", Color: "#1FA463"},
	{ID: ProviderInstagram, Label: "Instagram", Icon: "instagram", Color: "#E4405F"},
	{ID: ProviderTikTok, Label: "TikTok", Icon: "music", Color: "#000000"},
	{ID: ProviderLinkedIn, Label: "LinkedIn", Icon: "linkedin", Color: "#0A66C2"},
}

// Providers returns the static list of supported link sources.
func Providers() []ProviderInfo {
	return slices.Clone(providers)
}
