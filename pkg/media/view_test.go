package media_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/hub/pkg/media"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  media.Mode
	}{
		{"native", media.ModeNative},
		{" NATIVE ", media.ModeNative},
		{"preview", media.ModePreview},
		{"", media.ModePreview},
		{"anything", media.ModePreview},
	}

	for _, tt := range tests {
		if got := media.ParseMode(tt.input); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestViewStateDriveToggle(t *testing.T) {
	const id = "1AbC_dEf-123xyz"
	asset := &media.Asset{
		URL:         "https://drive.google.com/file/d/" + id + "/view",
		SubtitleURL: "https://example.com/captions.vtt",
	}

	s := media.NewViewState(media.TypeVideo, asset)

	if s.Mode() != media.ModePreview {
		t.Fatalf("initial mode = %q, want preview", s.Mode())
	}
	if !s.Toggleable() {
		t.Fatal("drive view should be toggleable")
	}

	plan := s.Plan()
	if plan.Strategy != media.StrategyDrivePreview {
		t.Errorf("strategy = %q, want drive_preview", plan.Strategy)
	}
	if plan.Element != "iframe" {
		t.Errorf("element = %q, want iframe", plan.Element)
	}
	if plan.Src != "https://drive.google.com/file/d/"+id+"/preview" {
		t.Errorf("src = %q", plan.Src)
	}
	if plan.ReferrerPolicy != "no-referrer" {
		t.Errorf("referrer policy = %q, want no-referrer", plan.ReferrerPolicy)
	}
	for _, token := range []string{"allow-forms", "allow-presentation", "allow-same-origin", "allow-scripts", "allow-popups"} {
		if !slices.Contains(plan.Sandbox, token) {
			t.Errorf("sandbox %v missing %s", plan.Sandbox, token)
		}
	}
	if !plan.CanToggle {
		t.Error("plan should offer the toggle")
	}

	if got := s.Toggle(); got != media.ModeNative {
		t.Fatalf("Toggle() = %q, want native", got)
	}

	plan = s.Plan()
	if plan.Strategy != media.StrategyDriveNative {
		t.Errorf("strategy = %q, want drive_native", plan.Strategy)
	}
	if plan.Element != "video" {
		t.Errorf("element = %q, want video", plan.Element)
	}
	if plan.Src != "https://drive.google.com/uc?export=download&id="+id {
		t.Errorf("src = %q", plan.Src)
	}
	if !plan.Controls || !plan.DisablePictureInPicture {
		t.Error("native drive video should show controls and disable picture-in-picture")
	}
	if plan.SubtitleURL != asset.SubtitleURL {
		t.Errorf("subtitle url = %q, want %q", plan.SubtitleURL, asset.SubtitleURL)
	}

	if got := s.Toggle(); got != media.ModePreview {
		t.Fatalf("second Toggle() = %q, want preview", got)
	}
	if s.Plan().Strategy != media.StrategyDrivePreview {
		t.Error("second toggle should return to the preview iframe")
	}
}

func TestViewStateDriveNativeElements(t *testing.T) {
	tests := []struct {
		materialType media.MaterialType
		element      string
	}{
		{media.TypeImage, "img"},
		{media.TypePDF, "a"},
		{media.TypeVideo, "video"},
	}

	for _, tt := range tests {
		t.Run(string(tt.materialType), func(t *testing.T) {
			s := media.NewViewState(tt.materialType, &media.Asset{URL: "https://drive.google.com/open?id=abc"})
			s.SetMode(media.ModeNative)

			plan := s.Plan()
			if plan.Strategy != media.StrategyDriveNative {
				t.Fatalf("strategy = %q, want drive_native", plan.Strategy)
			}
			if plan.Element != tt.element {
				t.Errorf("element = %q, want %q", plan.Element, tt.element)
			}
		})
	}
}

func TestViewStateNotToggleable(t *testing.T) {
	tests := []struct {
		name         string
		materialType media.MaterialType
		url          string
		strategy     media.Strategy
	}{
		{"youtube video", media.TypeVideo, "https://youtu.be/" + videoID, media.StrategyYouTube},
		{"direct image", media.TypeImage, "https://example.com/a.png", media.StrategyImage},
		{"direct pdf", media.TypePDF, "https://example.com/a.pdf", media.StrategyPDF},
		{"direct video", media.TypeVideo, "https://example.com/a.mp4", media.StrategyVideo},
		{"instagram reel", media.TypeVideo, "https://www.instagram.com/reel/abc/", media.StrategyVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := media.NewViewState(tt.materialType, &media.Asset{URL: tt.url})
			if s.Toggleable() {
				t.Error("view should not be toggleable")
			}
			if got := s.Toggle(); got != media.ModePreview {
				t.Errorf("Toggle() = %q, want preview", got)
			}
			s.SetMode(media.ModeNative)
			if s.Mode() != media.ModePreview {
				t.Errorf("SetMode changed mode to %q", s.Mode())
			}

			plan := s.Plan()
			if plan.Strategy != tt.strategy {
				t.Errorf("strategy = %q, want %q", plan.Strategy, tt.strategy)
			}
			if plan.CanToggle {
				t.Error("plan should not offer the toggle")
			}
		})
	}
}

func TestViewStatePlans(t *testing.T) {
	t.Run("pdf carries viewer hints", func(t *testing.T) {
		s := media.NewViewState(media.TypePDF, &media.Asset{URL: "https://example.com/a.pdf#page=3"})
		plan := s.Plan()
		want := "https://example.com/a.pdf#toolbar=0&navpanes=0&scrollbar=0&view=FitH"
		if plan.Src != want {
			t.Errorf("src = %q, want %q", plan.Src, want)
		}
		if plan.Element != "iframe" {
			t.Errorf("element = %q, want iframe", plan.Element)
		}
	})

	t.Run("youtube iframe", func(t *testing.T) {
		s := media.NewViewState(media.TypeVideo, &media.Asset{URL: "https://www.youtube.com/watch?v=" + videoID})
		plan := s.Plan()
		if plan.Src != "https://www.youtube.com/embed/"+videoID+"?autoplay=1&rel=0&modestbranding=1" {
			t.Errorf("src = %q", plan.Src)
		}
		if plan.Allow == "" {
			t.Error("youtube iframe should carry an allow list")
		}
	})

	t.Run("direct video controls", func(t *testing.T) {
		s := media.NewViewState(media.TypeVideo, &media.Asset{
			URL:         "https://cdn.example.com/clip.mp4",
			SubtitleURL: " https://cdn.example.com/clip.vtt ",
		})
		plan := s.Plan()
		if plan.Element != "video" || plan.Src != "https://cdn.example.com/clip.mp4" {
			t.Errorf("plan = %+v", plan)
		}
		if !plan.Controls || !plan.DisablePictureInPicture {
			t.Error("video should show controls and disable picture-in-picture")
		}
		if plan.ControlsList != "nodownload noremoteplayback" {
			t.Errorf("controls list = %q", plan.ControlsList)
		}
		if plan.SubtitleURL != "https://cdn.example.com/clip.vtt" {
			t.Errorf("subtitle url = %q", plan.SubtitleURL)
		}
	})

	t.Run("declared type wins over provider", func(t *testing.T) {
		s := media.NewViewState(media.TypePDF, &media.Asset{URL: "https://youtu.be/" + videoID})
		if got := s.Plan().Strategy; got != media.StrategyPDF {
			t.Errorf("strategy = %q, want pdf", got)
		}
	})
}

func TestViewStateUnavailable(t *testing.T) {
	for _, asset := range []*media.Asset{nil, {URL: "  "}} {
		s := media.NewViewState(media.TypeVideo, asset)
		plan := s.Plan()
		if plan.Strategy != media.StrategyUnavailable {
			t.Errorf("strategy = %q, want unavailable", plan.Strategy)
		}
		if plan.Message != media.UnavailableMessage {
			t.Errorf("message = %q", plan.Message)
		}
		if s.Toggleable() {
			t.Error("unavailable view should not be toggleable")
		}
	}
}

func TestProviders(t *testing.T) {
	providers := media.Providers()
	if len(providers) != 5 {
		t.Fatalf("len(Providers()) = %d, want 5", len(providers))
	}

	for _, p := range providers {
		if p.ID == media.ProviderDirect {
			t.Error("catalog should not list the direct provider")
		}
		if p.Label == "" || p.Icon == "" || p.Color == "" {
			t.Errorf("incomplete provider info %+v", p)
		}
	}

	providers[0].Label = "changed"
	if media.Providers()[0].Label == "changed" {
		t.Error("Providers() should return a copy")
	}
}

func TestParseMaterialType(t *testing.T) {
	for _, v := range []string{"image", "pdf", "video"} {
		if _, err := media.ParseMaterialType(v); err != nil {
			t.Errorf("ParseMaterialType(%q) error: %v", v, err)
		}
	}
	if _, err := media.ParseMaterialType("audio"); err == nil {
		t.Error("ParseMaterialType(audio) should fail")
	}
}
