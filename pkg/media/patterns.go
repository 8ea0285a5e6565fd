package media

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	youtubeEmbedFormat     = "https://www.youtube.com/embed/%s?autoplay=1&rel=0&modestbranding=1"
	youtubeThumbnailFormat = "https://img.youtube.com/vi/%s/mqdefault.jpg"
	drivePreviewFormat     = "https://drive.google.com/file/d/%s/preview"
	driveThumbnailFormat   = "https://lh3.googleusercontent.com/d/%s=w400"
	driveDownloadFormat    = "https://drive.google.com/uc?export=download&id=%s"
	tiktokEmbedFormat      = "https://www.tiktok.com/embed/v2/%s"
)

var (
	// Not anchored: a YouTube link nested anywhere in the string still matches.
	youtubePattern = regexp.MustCompile(
		`(?:(?i:youtube(?:-nocookie)?\.com)/(?:[^/]+/.+/|(?:v|e(?:mbed)?|shorts|live)/|.*[?&]v=)|(?i:youtu\.be)/)([^"&?/\s]{11})`,
	)

	drivePathPattern  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveQueryPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)

	tiktokVideoPattern = regexp.MustCompile(`/video/(\d+)`)

	imageExtPattern = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif|webp|bmp|svg|avif)(?:[?#].*)?$`)
	videoExtPattern = regexp.MustCompile(`(?i)\.(?:mp4|webm|ogg|mov|avi|mkv)(?:[?#].*)?$`)
)

var driveHosts = []string{
	"drive.google.com",
	"docs.google.com",
}

// normalize trims the input and, when it is an embed snippet, replaces it
// with the src of its first iframe. Only one level is unwrapped.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return unwrapIframe(s)
}

func unwrapIframe(s string) string {
	if !strings.Contains(strings.ToLower(s), "<iframe") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	src, ok := doc.Find("iframe").First().Attr("src")
	if !ok {
		return s
	}

	if src = strings.TrimSpace(src); src == "" {
		return s
	}
	return src
}

func youtubeID(u string) (string, bool) {
	m := youtubePattern.FindStringSubmatch(u)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func driveID(u string) (string, bool) {
	lower := strings.ToLower(u)
	if !containsAny(lower, driveHosts...) {
		return "", false
	}

	if m := drivePathPattern.FindStringSubmatch(u); len(m) > 1 {
		return m[1], true
	}
	if m := driveQueryPattern.FindStringSubmatch(u); len(m) > 1 {
		return m[1], true
	}
	return "", false
}

// driveType guesses a Drive file's type from hints anywhere in the link.
func driveType(u string) MaterialType {
	lower := strings.ToLower(u)
	switch {
	case containsAny(lower, "video", ".mp4", ".mov"):
		return TypeVideo
	case containsAny(lower, "image", ".jpg", ".png", ".webp"):
		return TypeImage
	default:
		return TypePDF
	}
}

// extensionType infers a type from the file extension, defaulting to pdf.
func extensionType(u string) MaterialType {
	switch {
	case imageExtPattern.MatchString(u):
		return TypeImage
	case videoExtPattern.MatchString(u):
		return TypeVideo
	default:
		return TypePDF
	}
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
