package media

import "fmt"

// EmbedConfig is the rendering-time view of a stored asset URL.
// Only YouTube and Google Drive are embedded; every other link is
// reported as direct and rendered by material type.
type EmbedConfig struct {
	IsEmbed   bool     `json:"is_embed"`
	Provider  Provider `json:"provider"`
	EmbedURL  string   `json:"embed_url"`
	NativeURL string   `json:"native_url"`
}

// Resolve derives the embed target and native fallback for a stored URL.
// It shares the detector table with Classify so both call sites agree.
func Resolve(raw string) EmbedConfig {
	u := normalize(raw)
	if u == "" {
		return EmbedConfig{Provider: ProviderDirect}
	}

	c := classify(u)

	switch c.Provider {
	case ProviderYouTube:
		return EmbedConfig{
			IsEmbed:   true,
			Provider:  ProviderYouTube,
			EmbedURL:  c.EmbedURL,
			NativeURL: u,
		}
	case ProviderGoogleDrive:
		id, _ := driveID(u)
		return EmbedConfig{
			IsEmbed:   true,
			Provider:  ProviderGoogleDrive,
			EmbedURL:  c.EmbedURL,
			NativeURL: fmt.Sprintf(driveDownloadFormat, id),
		}
	default:
		return EmbedConfig{
			Provider:  ProviderDirect,
			EmbedURL:  u,
			NativeURL: u,
		}
	}
}
