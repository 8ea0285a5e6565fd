package media

import (
	"slices"
	"strings"
)

// UnavailableMessage is shown when a material has no asset for the requested language.
const UnavailableMessage = "content unavailable in this language"

const pdfViewerHints = "#toolbar=0&navpanes=0&scrollbar=0&view=FitH"

const (
	youtubeAllow      = "autoplay; encrypted-media; picture-in-picture; fullscreen"
	videoControlsList = "nodownload noremoteplayback"
)

var driveSandbox = []string{
	"allow-forms",
	"allow-presentation",
	"allow-same-origin",
	"allow-scripts",
	"allow-popups",
}

// Mode selects between a provider's embedded preview and a native media tag.
type Mode string

// View modes. Preview is the default every time a material is opened.
const (
	ModePreview Mode = "preview"
	ModeNative  Mode = "native"
)

// ParseMode maps a query value to a Mode. Anything but "native" is preview.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeNative {
		return ModeNative
	}
	return ModePreview
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeNative {
		return ModePreview
	}
	return ModeNative
}

// Strategy names how a view is rendered.
type Strategy string

// Rendering strategies.
const (
	StrategyImage        Strategy = "image"
	StrategyPDF          Strategy = "pdf"
	StrategyYouTube      Strategy = "youtube"
	StrategyDrivePreview Strategy = "drive_preview"
	StrategyDriveNative  Strategy = "drive_native"
	StrategyVideo        Strategy = "video"
	StrategyUnavailable  Strategy = "unavailable"
)

// Asset is the per-language content a view renders.
type Asset struct {
	URL         string
	SubtitleURL string
}

// RenderPlan tells the viewer which element to build and with which attributes.
type RenderPlan struct {
	Strategy                Strategy `json:"strategy"`
	Mode                    Mode     `json:"mode"`
	Provider                Provider `json:"provider,omitempty"`
	Element                 string   `json:"element,omitempty"`
	Src                     string   `json:"src,omitempty"`
	OriginalURL             string   `json:"original_url,omitempty"`
	Sandbox                 []string `json:"sandbox,omitempty"`
	ReferrerPolicy          string   `json:"referrer_policy,omitempty"`
	Allow                   string   `json:"allow,omitempty"`
	Controls                bool     `json:"controls,omitempty"`
	DisablePictureInPicture bool     `json:"disable_picture_in_picture,omitempty"`
	ControlsList            string   `json:"controls_list,omitempty"`
	SubtitleURL             string   `json:"subtitle_url,omitempty"`
	CanToggle               bool     `json:"can_toggle"`
	Message                 string   `json:"message,omitempty"`
}

// ViewState is the rendering state of one opened material. It lives only
// as long as the view and always starts in preview mode.
type ViewState struct {
	materialType MaterialType
	asset        *Asset
	embed        EmbedConfig
	mode         Mode
}

// NewViewState opens a view of a material. A nil asset means the
// requested language has no content.
func NewViewState(t MaterialType, asset *Asset) *ViewState {
	s := &ViewState{
		materialType: t,
		mode:         ModePreview,
	}
	if asset != nil && strings.TrimSpace(asset.URL) != "" {
		s.asset = asset
		s.embed = Resolve(asset.URL)
	}
	return s
}

// Mode returns the current view mode.
func (s *ViewState) Mode() Mode {
	return s.mode
}

// Toggleable reports whether the view offers the native/preview switch.
// Only Google Drive embeds do, because their preview can fail silently.
func (s *ViewState) Toggleable() bool {
	return s.asset != nil && s.embed.Provider == ProviderGoogleDrive
}

// Toggle flips between preview and native mode and returns the new mode.
// It is a no-op for views that are not toggleable.
func (s *ViewState) Toggle() Mode {
	if s.Toggleable() {
		s.mode = s.mode.Toggle()
	}
	return s.mode
}

// SetMode moves the view to m when the view is toggleable.
func (s *ViewState) SetMode(m Mode) {
	if s.Toggleable() {
		s.mode = m
	}
}

// Plan computes the render plan for the current state.
func (s *ViewState) Plan() RenderPlan {
	if s.asset == nil {
		return RenderPlan{
			Strategy: StrategyUnavailable,
			Mode:     s.mode,
			Message:  UnavailableMessage,
		}
	}

	original := normalize(s.asset.URL)

	if s.embed.Provider == ProviderGoogleDrive {
		return s.drivePlan(original)
	}

	plan := RenderPlan{
		Mode:        s.mode,
		Provider:    s.embed.Provider,
		OriginalURL: original,
	}

	switch {
	case s.materialType == TypeImage:
		plan.Strategy = StrategyImage
		plan.Element = "img"
		plan.Src = original
	case s.materialType == TypePDF:
		plan.Strategy = StrategyPDF
		plan.Element = "iframe"
		plan.Src = stripFragment(original) + pdfViewerHints
	case s.embed.Provider == ProviderYouTube:
		plan.Strategy = StrategyYouTube
		plan.Element = "iframe"
		plan.Src = s.embed.EmbedURL
		plan.Allow = youtubeAllow
	default:
		plan.Strategy = StrategyVideo
		plan.Element = "video"
		plan.Src = original
		applyVideoControls(&plan, s.asset.SubtitleURL)
	}

	return plan
}

func (s *ViewState) drivePlan(original string) RenderPlan {
	plan := RenderPlan{
		Mode:        s.mode,
		Provider:    ProviderGoogleDrive,
		OriginalURL: original,
		CanToggle:   true,
	}

	if s.mode == ModePreview {
		plan.Strategy = StrategyDrivePreview
		plan.Element = "iframe"
		plan.Src = s.embed.EmbedURL
		plan.Sandbox = slices.Clone(driveSandbox)
		plan.ReferrerPolicy = "no-referrer"
		return plan
	}

	plan.Strategy = StrategyDriveNative
	plan.Src = s.embed.NativeURL

	switch s.materialType {
	case TypeImage:
		plan.Element = "img"
	case TypePDF:
		plan.Element = "a"
	default:
		plan.Element = "video"
		applyVideoControls(&plan, s.asset.SubtitleURL)
	}

	return plan
}

func applyVideoControls(plan *RenderPlan, subtitleURL string) {
	plan.Controls = true
	plan.DisablePictureInPicture = true
	plan.ControlsList = videoControlsList
	plan.SubtitleURL = strings.TrimSpace(subtitleURL)
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
