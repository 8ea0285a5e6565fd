package media_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/hub/pkg/media"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  media.EmbedConfig
	}{
		{
			name:  "empty",
			input: "  ",
			want:  media.EmbedConfig{Provider: media.ProviderDirect},
		},
		{
			name:  "youtube",
			input: "https://youtu.be/" + videoID,
			want: media.EmbedConfig{
				IsEmbed:   true,
				Provider:  media.ProviderYouTube,
				EmbedURL:  "https://www.youtube.com/embed/" + videoID + "?autoplay=1&rel=0&modestbranding=1",
				NativeURL: "https://youtu.be/" + videoID,
			},
		},
		{
			name:  "drive file",
			input: "https://drive.google.com/file/d/abc_123-XYZ/view",
			want: media.EmbedConfig{
				IsEmbed:   true,
				Provider:  media.ProviderGoogleDrive,
				EmbedURL:  "https://drive.google.com/file/d/abc_123-XYZ/preview",
				NativeURL: "https://drive.google.com/uc?export=download&id=abc_123-XYZ",
			},
		},
		{
			name:  "drive open",
			input: "https://drive.google.com/open?id=abc123",
			want: media.EmbedConfig{
				IsEmbed:   true,
				Provider:  media.ProviderGoogleDrive,
				EmbedURL:  "https://drive.google.com/file/d/abc123/preview",
				NativeURL: "https://drive.google.com/uc?export=download&id=abc123",
			},
		},
		{
			name:  "direct file",
			input: "https://example.com/report.pdf",
			want: media.EmbedConfig{
				Provider:  media.ProviderDirect,
				EmbedURL:  "https://example.com/report.pdf",
				NativeURL: "https://example.com/report.pdf",
			},
		},
		{
			name:  "instagram is rendered directly",
			input: "https://www.instagram.com/reel/Cabc123/",
			want: media.EmbedConfig{
				Provider:  media.ProviderDirect,
				EmbedURL:  "https://www.instagram.com/reel/Cabc123/",
				NativeURL: "https://www.instagram.com/reel/Cabc123/",
			},
		},
		{
			name:  "iframe snippet",
			input: `<iframe src="https://www.youtube.com/embed/` + videoID + `"></iframe>`,
			want: media.EmbedConfig{
				IsEmbed:   true,
				Provider:  media.ProviderYouTube,
				EmbedURL:  "https://www.youtube.com/embed/" + videoID + "?autoplay=1&rel=0&modestbranding=1",
				NativeURL: "https://www.youtube.com/embed/" + videoID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := media.Resolve(tt.input)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveDriveRoundTrip(t *testing.T) {
	inputs := []string{
		"https://drive.google.com/file/d/1AbC_dEf-123xyz/view?usp=sharing",
		"https://drive.google.com/open?id=1AbC_dEf-123xyz",
	}

	for _, input := range inputs {
		cfg := media.Resolve(input)

		preview := media.Classify(cfg.EmbedURL)
		if preview.Provider != media.ProviderGoogleDrive {
			t.Errorf("Classify(%q).Provider = %q, want google_drive", cfg.EmbedURL, preview.Provider)
		}
		if !strings.Contains(preview.EmbedURL, "1AbC_dEf-123xyz") {
			t.Errorf("round-trip embed %q lost the file id", preview.EmbedURL)
		}

		native := media.Classify(cfg.NativeURL)
		if native.Provider != media.ProviderGoogleDrive {
			t.Errorf("Classify(%q).Provider = %q, want google_drive", cfg.NativeURL, native.Provider)
		}
		if native.EmbedURL != cfg.EmbedURL {
			t.Errorf("native embed = %q, want %q", native.EmbedURL, cfg.EmbedURL)
		}
	}
}

func TestResolveAgreesWithClassify(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/watch?v=" + videoID,
		"https://drive.google.com/file/d/xyz/view",
		"https://www.tiktok.com/@a/video/123",
		"https://www.linkedin.com/posts/a",
		"https://example.com/a.png",
	}

	for _, input := range inputs {
		c := media.Classify(input)
		r := media.Resolve(input)

		switch c.Provider {
		case media.ProviderYouTube, media.ProviderGoogleDrive:
			if r.Provider != c.Provider || !r.IsEmbed || r.EmbedURL != c.EmbedURL {
				t.Errorf("Resolve(%q) = %+v, disagrees with %+v", input, r, c)
			}
		default:
			if r.Provider != media.ProviderDirect || r.IsEmbed {
				t.Errorf("Resolve(%q) = %+v, want direct", input, r)
			}
		}
	}
}
