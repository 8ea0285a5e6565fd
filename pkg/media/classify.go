package media

import (
	"fmt"
	"strings"
)

// Confidence levels assigned per detection path. Advisory only.
const (
	ConfidenceExact     = 1.0
	ConfidenceHeuristic = 0.9
	ConfidenceLinkedIn  = 0.8
	ConfidenceFallback  = 0.5
)

// Classification describes a pasted link: who hosts it, what it probably
// contains, and how to embed it. It is derived on demand and never stored.
type Classification struct {
	Provider     Provider     `json:"provider"`
	Label        string       `json:"label"`
	MaterialType MaterialType `json:"material_type"`
	EmbedURL     string       `json:"embed_url"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	OriginalURL  string       `json:"original_url"`
	Confidence   float64      `json:"confidence"`
}

type detector func(u string) (*Classification, bool)

// Order is precedence: the first detector that matches wins.
// detectDirect is the default arm and always matches.
var detectors = []detector{
	detectYouTube,
	detectDrive,
	detectInstagram,
	detectTikTok,
	detectLinkedIn,
}

// Classify detects the provider of a pasted link and derives its embed data.
// It returns nil only when raw is empty or whitespace; any other input
// resolves to a result, falling back to the direct provider.
func Classify(raw string) *Classification {
	u := normalize(raw)
	if u == "" {
		return nil
	}
	return classify(u)
}

func classify(u string) *Classification {
	for _, detect := range detectors {
		if c, ok := detect(u); ok {
			return c
		}
	}
	return detectDirect(u)
}

func newClassification(p Provider, t MaterialType, embed, u string, confidence float64) *Classification {
	return &Classification{
		Provider:     p,
		Label:        p.Label(),
		MaterialType: t,
		EmbedURL:     embed,
		OriginalURL:  u,
		Confidence:   confidence,
	}
}

func detectYouTube(u string) (*Classification, bool) {
	id, ok := youtubeID(u)
	if !ok {
		return nil, false
	}

	c := newClassification(ProviderYouTube, TypeVideo, fmt.Sprintf(youtubeEmbedFormat, id), u, ConfidenceExact)
	c.ThumbnailURL = fmt.Sprintf(youtubeThumbnailFormat, id)
	return c, true
}

func detectDrive(u string) (*Classification, bool) {
	id, ok := driveID(u)
	if !ok {
		return nil, false
	}

	c := newClassification(ProviderGoogleDrive, driveType(u), fmt.Sprintf(drivePreviewFormat, id), u, ConfidenceExact)
	c.ThumbnailURL = fmt.Sprintf(driveThumbnailFormat, id)
	return c, true
}

func detectInstagram(u string) (*Classification, bool) {
	if !strings.Contains(strings.ToLower(u), "instagram.com") {
		return nil, false
	}

	t := TypeImage
	if containsAny(u, "/reel/", "/reels/") {
		t = TypeVideo
	}

	base := stripQuery(u)
	embed := base + "/embed"
	if strings.HasSuffix(base, "/") {
		embed = base + "embed"
	}

	return newClassification(ProviderInstagram, t, embed, u, ConfidenceHeuristic), true
}

func detectTikTok(u string) (*Classification, bool) {
	if !strings.Contains(strings.ToLower(u), "tiktok.com") {
		return nil, false
	}

	embed := u
	if m := tiktokVideoPattern.FindStringSubmatch(u); len(m) > 1 {
		embed = fmt.Sprintf(tiktokEmbedFormat, m[1])
	}

	return newClassification(ProviderTikTok, TypeVideo, embed, u, ConfidenceHeuristic), true
}

func detectLinkedIn(u string) (*Classification, bool) {
	if !strings.Contains(strings.ToLower(u), "linkedin.com") {
		return nil, false
	}

	t := TypePDF
	if containsAny(u, "/video/", "embed") {
		t = TypeVideo
	}

	return newClassification(ProviderLinkedIn, t, u, u, ConfidenceLinkedIn), true
}

func detectDirect(u string) *Classification {
	return newClassification(ProviderDirect, extensionType(u), u, u, ConfidenceFallback)
}
