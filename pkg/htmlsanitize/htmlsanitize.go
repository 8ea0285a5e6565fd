// Package htmlsanitize cleans author-supplied rich text before it is stored or rendered.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, event handlers, iframes, and unsafe URLs from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks the result safe for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
